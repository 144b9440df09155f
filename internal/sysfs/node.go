// Package sysfs provides typed access to kernel control files.
//
// A Node is a single sysfs attribute. Writes and reads report an explicit
// result so callers can decide whether a failure matters; the lights service
// logs and ignores them.
package sysfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/smazurov/lightnode/internal/logging"
	"github.com/smazurov/lightnode/internal/metrics"
)

// Node is a sysfs attribute file.
type Node struct {
	path   string
	logger logging.Logger
}

// NewNode returns a node for path. Root, when non-empty, is prepended to
// absolute paths so a whole device tree can be redirected (tests, chroots).
func NewNode(root, path string, logger logging.Logger) Node {
	if root != "" && path != "" {
		path = filepath.Join(root, path)
	}
	if logger == nil {
		logger = logging.GetLogger("sysfs")
	}
	return Node{path: path, logger: logger}
}

// Join returns a child node relative to n.
func (n Node) Join(elem ...string) Node {
	return Node{
		path:   filepath.Join(append([]string{n.path}, elem...)...),
		logger: n.logger,
	}
}

// Path returns the absolute file path.
func (n Node) Path() string {
	return n.path
}

// Valid reports whether the node has a path at all.
func (n Node) Valid() bool {
	return n.path != ""
}

// Write stores value in the node. Sysfs attributes must already exist, so
// the file is never created.
func (n Node) Write(value string) error {
	f, err := os.OpenFile(n.path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		n.logger.Warn("Failed to write sysfs node", "path", n.path, "value", value, "error", err)
		metrics.RecordWrite(false)
		return fmt.Errorf("open %s: %w", n.path, err)
	}
	defer f.Close()

	if _, err := io.WriteString(f, value); err != nil {
		n.logger.Warn("Failed to write sysfs node", "path", n.path, "value", value, "error", err)
		metrics.RecordWrite(false)
		return fmt.Errorf("write %s: %w", n.path, err)
	}

	n.logger.Debug("Wrote sysfs node", "path", n.path, "value", value)
	metrics.RecordWrite(true)
	return nil
}

// WriteInt stores the decimal form of value.
func (n Node) WriteInt(value int) error {
	return n.Write(strconv.Itoa(value))
}

// ReadString reads at most limit bytes. A limit of 0 reads the whole file.
func (n Node) ReadString(limit int) (string, error) {
	f, err := os.Open(n.path)
	if err != nil {
		n.logger.Warn("Failed to read sysfs node", "path", n.path, "error", err)
		return "", fmt.Errorf("open %s: %w", n.path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if limit > 0 {
		r = io.LimitReader(f, int64(limit))
	}

	data, err := io.ReadAll(r)
	if err != nil {
		n.logger.Warn("Failed to read sysfs node", "path", n.path, "error", err)
		return "", fmt.Errorf("read %s: %w", n.path, err)
	}
	return string(data), nil
}

// ReadInt parses the first whitespace-separated token as an integer.
func (n Node) ReadInt() (int, error) {
	s, err := n.ReadString(0)
	if err != nil {
		return 0, err
	}

	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("read %s: empty value", n.path)
	}

	v, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", n.path, err)
	}
	return v, nil
}
