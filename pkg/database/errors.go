package database

import (
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// 存储层统一错误，repository 把驱动错误翻译成这两个哨兵
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// codeInvalidTextRepresentation uuid 列收到非法字面量，这样的 id 不可能存在
const codeInvalidTextRepresentation = "22P02"

// Translate 翻译 gorm / mongo 驱动错误
func Translate(err error) error {
	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case errors.As(err, &pgErr) && pgErr.Code == codeInvalidTextRepresentation:
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), mongo.IsDuplicateKeyError(err):
		return errors.Wrap(ErrDuplicate, err.Error())
	default:
		return err
	}
}
