package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"fable/internal/config"
)

// Client MongoDB 客户端封装
// 持久化在 fable 里是可选能力，URI 留空走纯内存模式时根本不会走到这里，
// 所以空 URI 一律按配置错误处理
type Client struct {
	client   *mongo.Client
	database *mongo.Database
}

// New 创建 MongoDB 客户端并验证连通性
func New(cfg *config.MongoConfig) (*Client, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo.uri is empty")
	}
	dbName := cfg.Database
	if dbName == "" {
		dbName = "fable"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, err
	}

	// 连接是懒建立的，先 ping 一次把配置错误暴露在启动期
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	return &Client{
		client:   client,
		database: client.Database(dbName),
	}, nil
}

// Database 获取数据库
func (c *Client) Database() *mongo.Database {
	return c.database
}

// Close 关闭连接
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// Client 获取原始客户端，就绪探针用它做 ping
func (c *Client) Client() *mongo.Client {
	return c.client
}
