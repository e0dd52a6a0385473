package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// 并发向同一购物车加购，对比最终数量与请求数，观察 app.entity_locks 开关下的丢失更新
var (
	baseURL    = flag.String("base", "http://localhost:8080/api", "API 根地址")
	adminEmail = flag.String("admin", "admin@yourstore.com", "管理员邮箱（需在 app.admin_emails 中）")
	adminPass  = flag.String("admin-password", "admin-password", "管理员密码")
	total      = flag.Int("n", 200, "并发请求数")
)

var httpClient *http.Client

func init() {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 512
	t.MaxIdleConnsPerHost = 512
	t.MaxConnsPerHost = 512
	httpClient = &http.Client{
		Transport: t,
		Timeout:   10 * time.Second,
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func main() {
	flag.Parse()

	// 1. 准备管理员、分类与商品
	adminToken := session(*adminEmail, *adminPass)
	suffix := uuid.NewString()[:8]

	var category struct {
		ID string `json:"id"`
	}
	mustCall(http.MethodPost, "/categories", adminToken, map[string]any{"name": "stress-" + suffix}, &category)

	var product struct {
		ID string `json:"id"`
	}
	mustCall(http.MethodPost, "/products", adminToken, map[string]any{
		"name":       "stress-product-" + suffix,
		"price":      "9.99",
		"stock":      100000,
		"categoryId": category.ID,
	}, &product)

	// 2. 普通用户
	userToken := session("stress-"+suffix+"@example.com", "stress-password")

	fmt.Printf("开始压测：%d 个并发请求向同一购物车加购商品 %s...\n", *total, product.ID)

	// 3. 并发加购
	var wg sync.WaitGroup
	var okCount, failCount atomic.Int64
	start := time.Now()

	for i := 0; i < *total; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := call(http.MethodPost, "/cart/items", userToken, map[string]any{"productId": product.ID, "quantity": 1}, nil)
			if err != nil {
				failCount.Add(1)
				return
			}
			okCount.Add(1)
		}()
	}
	wg.Wait()
	duration := time.Since(start)

	// 4. 读取最终数量
	var cart struct {
		Items []struct {
			ProductID string `json:"productId"`
			Quantity  int    `json:"quantity"`
		} `json:"items"`
	}
	mustCall(http.MethodGet, "/cart", userToken, nil, &cart)
	final := 0
	for _, item := range cart.Items {
		if item.ProductID == product.ID {
			final = item.Quantity
		}
	}

	fmt.Println("--------------------------------------------------")
	fmt.Printf("压测结束，耗时: %v\n", duration)
	fmt.Printf("QPS: %.2f\n", float64(*total)/duration.Seconds())
	fmt.Printf("成功请求: %d  失败请求: %d\n", okCount.Load(), failCount.Load())
	fmt.Printf("购物车最终数量: %d (预期: %d)\n", final, okCount.Load())
	if int64(final) != okCount.Load() {
		fmt.Printf("丢失更新: %d\n", okCount.Load()-int64(final))
	}
	fmt.Println("--------------------------------------------------")
}

// session 注册（已存在则忽略）并登录，返回 access token
func session(email, password string) string {
	creds := map[string]any{"email": email, "password": password}
	_ = call(http.MethodPost, "/auth/register", "", creds, nil)

	var tokens struct {
		Access string `json:"access"`
	}
	mustCall(http.MethodPost, "/auth/login", "", creds, &tokens)
	return tokens.Access
}

func mustCall(method, path, token string, body any, out any) {
	if err := call(method, path, token, body, out); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s: %v\n", method, path, err)
		os.Exit(1)
	}
}

func call(method, path, token string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, *baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("status %d: %s", resp.StatusCode, respBody)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, env.Message)
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}
