package worker

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// ErrQueueFull 队列已满，任务被丢弃
var ErrQueueFull = errors.New("worker queue full")

// Task 异步任务
type Task struct {
	Name  string
	Run   func(ctx context.Context) error
	Retry int // 已重试次数
}

// WorkerPool 固定协程数的任务池，失败任务按退避延迟重新入队
type WorkerPool struct {
	taskQueue  chan Task
	retryQueue chan Task // 重试队列
	workerNum  int
	maxRetry   int // 最大重试次数
	backoff    time.Duration
	log        *zap.Logger

	// OnFailed 任务最终失败（重试耗尽或被丢弃）时回调
	OnFailed func(task Task, err error)

	wg sync.WaitGroup
}

// NewWorkerPool 创建任务池
func NewWorkerPool(workerNum, bufferSize, maxRetry int, log *zap.Logger) *WorkerPool {
	if workerNum <= 0 {
		workerNum = 1
	}
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &WorkerPool{
		taskQueue:  make(chan Task, bufferSize),
		retryQueue: make(chan Task, bufferSize/2+1),
		workerNum:  workerNum,
		maxRetry:   maxRetry,
		backoff:    time.Second,
		log:        log,
	}
}

// Start 启动 worker，ctx 取消后全部退出
func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.workerNum; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	// 启动重试处理协程
	p.wg.Add(1)
	go p.retryWorker(ctx)
	p.log.Info("worker pool started", zap.Int("workers", p.workerNum))
}

// Wait 等待所有 worker 退出
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

// Run 作为后台任务运行：启动后阻塞到 ctx 取消
func (p *WorkerPool) Run(ctx context.Context) error {
	p.Start(ctx)
	<-ctx.Done()
	p.Wait()
	return nil
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-p.taskQueue:
			p.process(ctx, id, task)
		}
	}
}

func (p *WorkerPool) process(ctx context.Context, id int, task Task) {
	err := task.Run(ctx)
	if err == nil {
		return
	}

	p.log.Warn("task failed",
		zap.Int("worker", id),
		zap.String("task", task.Name),
		zap.Int("retry", task.Retry),
		zap.Error(err),
	)

	// 如果未达到最大重试次数，加入重试队列
	if task.Retry < p.maxRetry {
		task.Retry++
		select {
		case p.retryQueue <- task:
			return
		default:
			p.fail(task, errors.Wrap(ErrQueueFull, err.Error()))
			return
		}
	}
	p.fail(task, err)
}

func (p *WorkerPool) retryWorker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-p.retryQueue:
			// 延迟重试，避免立即重试
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(task.Retry) * p.backoff):
			}

			select {
			case p.taskQueue <- task:
			default:
				p.fail(task, ErrQueueFull)
			}
		}
	}
}

func (p *WorkerPool) fail(task Task, err error) {
	p.log.Error("task dropped", zap.String("task", task.Name), zap.Int("retry", task.Retry), zap.Error(err))
	if p.OnFailed != nil {
		p.OnFailed(task, err)
	}
}

// AddTask 提交任务，队列满时丢弃并返回 ErrQueueFull
func (p *WorkerPool) AddTask(task Task) error {
	select {
	case p.taskQueue <- task:
		return nil
	default:
		p.fail(task, ErrQueueFull)
		return ErrQueueFull
	}
}
