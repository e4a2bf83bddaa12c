package tests

import (
    "context"
    "errors"
    "fmt"
    "os"
    "slices"
    "testing"
    "time"

    "github.com/testcontainers/testcontainers-go"
    "github.com/testcontainers/testcontainers-go/wait"
    "github.com/walletera/eventskit/rabbitmq"
)

const (
    containersStartTimeout       = 60 * time.Second
    containersTerminationTimeout = 10 * time.Second
    mongodbStartupTimeout        = 10 * time.Second
    rabbitmqStartupTimeout       = 20 * time.Second
)

// serviceContainer is one backing service of tweet-app. The container is named
// tweet-app-<service> and its logs go to containerlogs/<service>.log.
type serviceContainer struct {
    service string
    request testcontainers.ContainerRequest
}

func serviceContainers() []serviceContainer {
    return []serviceContainer{
        {
            service: "rabbitmq",
            request: testcontainers.ContainerRequest{
                Image: "rabbitmq:3.8.0-management",
                User:  "rabbitmq",
                ExposedPorts: []string{
                    fmt.Sprintf("%d:%d", rabbitmq.DefaultPort, rabbitmq.DefaultPort),
                    fmt.Sprintf("%d:%d", rabbitmq.ManagementUIPort, rabbitmq.ManagementUIPort),
                },
                WaitingFor: wait.NewExecStrategy([]string{"rabbitmqadmin", "list", "queues"}).WithStartupTimeout(rabbitmqStartupTimeout),
            },
        },
        {
            service: "mongodb",
            request: testcontainers.ContainerRequest{
                Image:        "mongodb/mongodb-community-server",
                ExposedPorts: []string{"27017:27017"},
                WaitingFor:   wait.NewExecStrategy([]string{"mongosh", "--eval", "show dbs"}).WithStartupTimeout(mongodbStartupTimeout),
            },
        },
    }
}

type startedContainer struct {
    service   string
    container testcontainers.Container
    logs      *containerLogs
}

func TestMain(m *testing.M) {
    ctx, cancelCtx := context.WithTimeout(context.Background(), containersStartTimeout)
    started, err := startServiceContainers(ctx, serviceContainers())
    cancelCtx()
    if err != nil {
        panic(errors.Join(err, terminateServiceContainers(started)))
    }

    code := m.Run()

    if mongodbClient != nil {
        _ = mongodbClient.Disconnect(context.Background())
    }
    err = terminateServiceContainers(started)
    if err != nil {
        panic(err)
    }
    os.Exit(code)
}

// startServiceContainers returns the containers started so far even when one fails,
// so the caller can terminate them.
func startServiceContainers(ctx context.Context, containers []serviceContainer) ([]startedContainer, error) {
    started := make([]startedContainer, 0, len(containers))
    for _, sc := range containers {
        logs, err := newContainerLogs(sc.service)
        if err != nil {
            return started, err
        }
        req := sc.request
        req.Name = "tweet-app-" + sc.service
        req.LogConsumerCfg = &testcontainers.LogConsumerConfig{
            Consumers: []testcontainers.LogConsumer{logs},
        }
        container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
            ContainerRequest: req,
            Started:          true,
        })
        if err != nil {
            return started, errors.Join(fmt.Errorf("error creating %s container: %w", sc.service, err), logs.Close())
        }
        started = append(started, startedContainer{service: sc.service, container: container, logs: logs})
        serviceLogs = append(serviceLogs, logs)
    }
    return started, nil
}

func terminateServiceContainers(started []startedContainer) error {
    var errs []error
    for _, sc := range slices.Backward(started) {
        terminationCtx, cancel := context.WithTimeout(context.Background(), containersTerminationTimeout)
        err := sc.container.Terminate(terminationCtx)
        cancel()
        if err != nil {
            errs = append(errs, fmt.Errorf("failed terminating %s container: %w", sc.service, err))
        }
        err = sc.logs.Close()
        if err != nil {
            errs = append(errs, fmt.Errorf("failed closing %s container logs: %w", sc.service, err))
        }
    }
    return errors.Join(errs...)
}
