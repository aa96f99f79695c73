// internal/pkg/redis/client.go
package redis

import (
	"context"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Client 封装了 go-redis 的 UniversalClient，
// 同一套代码既能连单机（桌面打包）也能连集群（门店多终端）。
type Client struct {
	client goredis.UniversalClient
}

// NewClient 创建一个新的 Redis 客户端并验证连通性。
// addrs 格式为 "host1:port1,host2:port2"。
func NewClient(addrs string) (*Client, error) {
	client := goredis.NewUniversalClient(&goredis.UniversalOptions{
		Addrs: strings.Split(addrs, ","),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Client{client: client}, nil
}

// GetClient 返回底层的 go-redis 客户端。
func (c *Client) GetClient() goredis.UniversalClient {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}
