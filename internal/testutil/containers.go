// This file starts the backing services of campus-market with testcontainers.
// It is used by integration tests and by the cmd/testcontainers executable,
// which passes a nil *testing.T.

package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	mongoPort   nat.Port = "27017/tcp"
	redisPort   nat.Port = "6379/tcp"
	mariadbPort nat.Port = "3306/tcp"
	serverPort  nat.Port = "5001/tcp"

	// ServerImage is the campus-market image started by CreateAllTestContainers when present locally.
	ServerImage = "campus-market:latest"
)

// Containers holds the started services and how to reach them from the host.
type Containers struct {
	Network *testcontainers.DockerNetwork

	Mongo   testcontainers.Container
	Redis   testcontainers.Container
	MariaDB testcontainers.Container
	Server  testcontainers.Container

	MongoURI   string
	RedisAddr  string
	MariaDBDSN string
	ServerURL  string
}

// Terminate stops every started container and removes the network.
func (tc *Containers) Terminate(t *testing.T) {
	ctx := context.Background()
	for name, c := range map[string]testcontainers.Container{
		"server":  tc.Server,
		"mongo":   tc.Mongo,
		"redis":   tc.Redis,
		"mariadb": tc.MariaDB,
	} {
		if c == nil {
			continue
		}
		if err := c.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate %s: %v", name, err)
		}
	}
	if tc.Network != nil {
		if err := tc.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

func imageFromEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func autoRemove(hostConfig *container.HostConfig) {
	hostConfig.AutoRemove = os.Getenv("DEBUG_CONTAINER") != "true"
}

func startContainer(ctx context.Context, req testcontainers.ContainerRequest, nw *testcontainers.DockerNetwork, alias string) (testcontainers.Container, error) {
	req.HostConfigModifier = autoRemove
	if nw != nil {
		req.Networks = []string{nw.Name}
		req.NetworkAliases = map[string][]string{nw.Name: {alias}}
	}
	return testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
}

func endpoint(ctx context.Context, c testcontainers.Container, port nat.Port) (string, error) {
	host, err := c.Host(ctx)
	if err != nil {
		return "", err
	}
	mapped, err := c.MappedPort(ctx, port)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s", host, mapped.Port()), nil
}

// StartMongo starts MongoDB and returns the container and its connection URI.
func StartMongo(ctx context.Context, nw *testcontainers.DockerNetwork) (testcontainers.Container, string, error) {
	c, err := startContainer(ctx, testcontainers.ContainerRequest{
		Image:        imageFromEnv("MONGO_IMAGE", "mongo:7"),
		ExposedPorts: []string{string(mongoPort)},
		WaitingFor:   wait.ForListeningPort(mongoPort).WithStartupTimeout(60 * time.Second),
	}, nw, "mongo")
	if err != nil {
		return nil, "", fmt.Errorf("failed to start mongo: %w", err)
	}

	addr, err := endpoint(ctx, c, mongoPort)
	if err != nil {
		return c, "", err
	}
	return c, "mongodb://" + addr, nil
}

// StartRedis starts Redis and returns the container and its address.
func StartRedis(ctx context.Context, nw *testcontainers.DockerNetwork) (testcontainers.Container, string, error) {
	c, err := startContainer(ctx, testcontainers.ContainerRequest{
		Image:        imageFromEnv("REDIS_IMAGE", "redis:7-alpine"),
		ExposedPorts: []string{string(redisPort)},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}, nw, "redis")
	if err != nil {
		return nil, "", fmt.Errorf("failed to start redis: %w", err)
	}

	addr, err := endpoint(ctx, c, redisPort)
	return c, addr, err
}

// StartMariaDB starts MariaDB with an empty campus_market database and
// returns the container and a DSN for the app user.
func StartMariaDB(ctx context.Context, nw *testcontainers.DockerNetwork) (testcontainers.Container, string, error) {
	c, err := startContainer(ctx, testcontainers.ContainerRequest{
		Image:        imageFromEnv("DB_IMAGE", "mariadb:11"),
		ExposedPorts: []string{string(mariadbPort)},
		Env: map[string]string{
			"MARIADB_ROOT_PASSWORD": "root",
			"MARIADB_DATABASE":      "campus_market",
			"MARIADB_USER":          "market",
			"MARIADB_PASSWORD":      "market",
		},
		WaitingFor: wait.ForListeningPort(mariadbPort).WithStartupTimeout(90 * time.Second),
	}, nw, "mariadb")
	if err != nil {
		return nil, "", fmt.Errorf("failed to start mariadb: %w", err)
	}

	addr, err := endpoint(ctx, c, mariadbPort)
	if err != nil {
		return c, "", err
	}
	dsn := fmt.Sprintf("market:market@tcp(%s)/campus_market?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true", addr)

	// The port opens before the server accepts logins
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return c, "", err
	}
	defer db.Close()
	for i := 0; i < 30; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		return c, "", fmt.Errorf("mariadb not ready after 30 seconds: %w", err)
	}
	return c, dsn, nil
}

// CreateAllTestContainers starts MongoDB, Redis and MariaDB on a shared
// network, plus the campus-market server when its image exists locally.
func CreateAllTestContainers(t *testing.T) (*Containers, error) {
	ctx := context.Background()
	tc := &Containers{}

	nw, err := network.New(ctx)
	if err != nil {
		exitWithError(t, err, "Failed to create network")
	}
	tc.Network = nw

	if tc.Mongo, tc.MongoURI, err = StartMongo(ctx, nw); err != nil {
		tc.Terminate(t)
		exitWithError(t, err, "Failed to start MongoDB")
	}
	logMessage(t, "MONGODB_URI=%s", tc.MongoURI)

	if tc.Redis, tc.RedisAddr, err = StartRedis(ctx, nw); err != nil {
		tc.Terminate(t)
		exitWithError(t, err, "Failed to start Redis")
	}
	logMessage(t, "REDIS_ADDR=%s", tc.RedisAddr)

	if tc.MariaDB, tc.MariaDBDSN, err = StartMariaDB(ctx, nw); err != nil {
		tc.Terminate(t)
		exitWithError(t, err, "Failed to start MariaDB")
	}
	logMessage(t, "MariaDB DSN=%s", tc.MariaDBDSN)

	exists, err := imageExists(ctx, ServerImage)
	if err != nil {
		tc.Terminate(t)
		exitWithError(t, err, "Failed to check if image exists")
	}
	if !exists {
		logMessage(t, "Image %s does not exist, skipping server container", ServerImage)
		return tc, nil
	}

	tc.Server, err = startContainer(ctx, testcontainers.ContainerRequest{
		Image:        ServerImage,
		ExposedPorts: []string{string(serverPort)},
		Env: map[string]string{
			"PORT":        serverPort.Port(),
			"STORE_TYPE":  "mongodb",
			"MONGODB_URI": "mongodb://mongo:27017",
			"REDIS_ADDR":  "redis:6379",
			"JWT_SECRET":  imageFromEnv("JWT_SECRET", "testcontainers-secret"),
		},
		WaitingFor: wait.ForHTTP("/db-status").WithPort(serverPort).WithStartupTimeout(30 * time.Second),
	}, nw, "campus-market")
	if err != nil {
		tc.Terminate(t)
		exitWithError(t, err, "Failed to start campus-market")
	}

	addr, err := endpoint(ctx, tc.Server, serverPort)
	if err != nil {
		tc.Terminate(t)
		exitWithError(t, err, "Failed to resolve campus-market endpoint")
	}
	tc.ServerURL = "http://" + addr
	logMessage(t, "BASE_URL=%s", tc.ServerURL)

	return tc, nil
}

func imageExists(ctx context.Context, imageName string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}

	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == imageName {
				return true, nil
			}
		}
	}

	return false, nil
}

func exitWithError(t *testing.T, err error, msg string) {
	if t != nil {
		t.Fatalf(msg+": %v", err)
	} else {
		fmt.Printf(msg+": %v\n", err)
		os.Exit(1)
	}
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
