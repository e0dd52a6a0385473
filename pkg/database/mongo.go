package database

import (
	"context"
	"ecommerce_api/internal/pkg/config"
	"fmt"
	"reflect"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var tDecimal = reflect.TypeOf(decimal.Decimal{})

// IndexSpec 集合索引定义
type IndexSpec struct {
	Collection string
	Keys       bson.D
	Unique     bool
}

// InitMongo 连接 MongoDB 并返回业务库
func InitMongo(ctx context.Context, cfg config.DatabaseConfig) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetRegistry(NewRegistry()).
		SetConnectTimeout(5 * time.Second).
		SetMaxPoolSize(100)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, errors.Wrap(err, "connect mongo")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, errors.Wrap(err, "ping mongo")
	}

	return client, client.Database(cfg.MongoDB), nil
}

// EnsureIndexes 建立唯一约束等索引，重复执行无副作用
func EnsureIndexes(ctx context.Context, db *mongo.Database, specs ...IndexSpec) error {
	for _, spec := range specs {
		model := mongo.IndexModel{
			Keys:    spec.Keys,
			Options: options.Index().SetUnique(spec.Unique),
		}
		if _, err := db.Collection(spec.Collection).Indexes().CreateOne(ctx, model); err != nil {
			return errors.Wrapf(err, "create index on %s", spec.Collection)
		}
	}
	return nil
}

// NewRegistry 默认 bson 编解码 + decimal.Decimal <-> Decimal128
func NewRegistry() *bsoncodec.Registry {
	reg := bson.NewRegistry()
	reg.RegisterTypeEncoder(tDecimal, bsoncodec.ValueEncoderFunc(decimalEncodeValue))
	reg.RegisterTypeDecoder(tDecimal, bsoncodec.ValueDecoderFunc(decimalDecodeValue))
	return reg
}

func decimalEncodeValue(_ bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != tDecimal {
		return bsoncodec.ValueEncoderError{Name: "DecimalEncodeValue", Types: []reflect.Type{tDecimal}, Received: val}
	}
	d := val.Interface().(decimal.Decimal)
	d128, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return errors.Wrapf(err, "encode decimal %s", d.String())
	}
	return vw.WriteDecimal128(d128)
}

func decimalDecodeValue(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != tDecimal {
		return bsoncodec.ValueDecoderError{Name: "DecimalDecodeValue", Types: []reflect.Type{tDecimal}, Received: val}
	}

	var (
		d   decimal.Decimal
		err error
	)
	switch vr.Type() {
	case bsontype.Decimal128:
		var d128 primitive.Decimal128
		if d128, err = vr.ReadDecimal128(); err == nil {
			d, err = decimal.NewFromString(d128.String())
		}
	case bsontype.String:
		var s string
		if s, err = vr.ReadString(); err == nil {
			d, err = decimal.NewFromString(s)
		}
	case bsontype.Double:
		var f float64
		if f, err = vr.ReadDouble(); err == nil {
			d = decimal.NewFromFloat(f)
		}
	case bsontype.Int32:
		var i int32
		if i, err = vr.ReadInt32(); err == nil {
			d = decimal.NewFromInt32(i)
		}
	case bsontype.Int64:
		var i int64
		if i, err = vr.ReadInt64(); err == nil {
			d = decimal.NewFromInt(i)
		}
	case bsontype.Null:
		err = vr.ReadNull()
	default:
		return fmt.Errorf("cannot decode %v into decimal.Decimal", vr.Type())
	}
	if err != nil {
		return err
	}

	val.Set(reflect.ValueOf(d))
	return nil
}
