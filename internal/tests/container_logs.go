package tests

import (
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "sync"

    "github.com/testcontainers/testcontainers-go"
)

const (
    containerLogsDir      = "containerlogs"
    containerLogsTailSize = 20
)

// containerLogs writes the output of one service container to
// containerlogs/<service>.log and keeps the last lines for failed scenarios.
type containerLogs struct {
    service string

    mu       sync.Mutex
    file     *os.File
    tail     []string
    writeErr error
}

var _ testcontainers.LogConsumer = (*containerLogs)(nil)

func newContainerLogs(service string) (*containerLogs, error) {
    err := os.MkdirAll(containerLogsDir, 0o755)
    if err != nil {
        return nil, fmt.Errorf("failed creating %s: %w", containerLogsDir, err)
    }
    file, err := os.Create(filepath.Join(containerLogsDir, service+".log"))
    if err != nil {
        return nil, fmt.Errorf("failed creating log file for %s: %w", service, err)
    }
    return &containerLogs{
        service: service,
        file:    file,
    }, nil
}

func (c *containerLogs) Accept(log testcontainers.Log) {
    c.mu.Lock()
    defer c.mu.Unlock()
    c.write(log.Content)
    for _, line := range strings.Split(strings.TrimRight(string(log.Content), "\n"), "\n") {
        c.tail = append(c.tail, line)
    }
    if len(c.tail) > containerLogsTailSize {
        c.tail = c.tail[len(c.tail)-containerLogsTailSize:]
    }
}

// MarkScenario separates the output of each godog scenario in the log file.
func (c *containerLogs) MarkScenario(name string) {
    c.mu.Lock()
    defer c.mu.Unlock()
    c.write([]byte(fmt.Sprintf("\n=== scenario: %s\n", name)))
    c.tail = nil
}

func (c *containerLogs) Tail() []string {
    c.mu.Lock()
    defer c.mu.Unlock()
    return append([]string(nil), c.tail...)
}

func (c *containerLogs) Close() error {
    c.mu.Lock()
    defer c.mu.Unlock()
    return errors.Join(c.writeErr, c.file.Close())
}

// write keeps the first error, a failing log file must not break the container.
func (c *containerLogs) write(content []byte) {
    if c.writeErr != nil {
        return
    }
    _, c.writeErr = c.file.Write(content)
}

// serviceLogs holds the logs of every container started by TestMain.
var serviceLogs []*containerLogs

func markScenarioInContainerLogs(name string) {
    for _, logs := range serviceLogs {
        logs.MarkScenario(name)
    }
}

func containerLogsReport() string {
    var report strings.Builder
    for _, logs := range serviceLogs {
        fmt.Fprintf(&report, "--- last %s log lines (%s/%s.log)\n", logs.service, containerLogsDir, logs.service)
        for _, line := range logs.Tail() {
            report.WriteString(line)
            report.WriteString("\n")
        }
    }
    return report.String()
}
