package session

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DateFormat is the layout of the per-day checkpoint directories.
const DateFormat = "2006-01-02"

// fileName matches checkpoint file names and captures the session number.
var fileName = regexp.MustCompile(`^session-(\d+)\.md$`)

// Checkpoint is one session checkpoint file.
type Checkpoint struct {
	// Identity, derived from the file path rather than the frontmatter.
	Developer string `yaml:"-"`
	Date      string `yaml:"-"` // YYYY-MM-DD
	Number    int    `yaml:"-"`

	// Frontmatter fields (YAML between --- delimiters).
	Title   string `yaml:"title"`
	Status  string `yaml:"status,omitempty"`
	Summary string `yaml:"summary,omitempty"`

	// Content is the markdown body after the frontmatter.
	Content string `yaml:"-"`
}

// Path returns the checkpoint's path relative to the sessions root.
func (c *Checkpoint) Path() string {
	return filepath.Join(c.Developer, c.Date, fmt.Sprintf("session-%d.md", c.Number))
}

// Validate checks that the checkpoint can be written.
func (c *Checkpoint) Validate() error {
	if c.Developer == "" {
		return errors.New("checkpoint developer is required")
	}
	if c.Date == "" {
		return errors.New("checkpoint date is required")
	}
	if c.Number < 1 {
		return errors.New("checkpoint number must be at least 1")
	}
	if c.Title == "" {
		return errors.New("checkpoint title is required")
	}
	return nil
}

// Write serializes the checkpoint under root, creating directories as
// needed. Existing files are not overwritten.
func (c *Checkpoint) Write(root string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	path := filepath.Join(root, c.Path())
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("checkpoint already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create checkpoint directory: %w", err)
	}

	data, err := c.marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}

// marshal renders the frontmatter and body.
func (c *Checkpoint) marshal() ([]byte, error) {
	front, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(front)
	buf.WriteString("---\n")
	if c.Content != "" {
		buf.WriteString("\n")
		buf.WriteString(strings.TrimRight(c.Content, "\n"))
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// Load reads and parses a checkpoint file. Developer, date, and number are
// recovered from the path's trailing components; a path whose name does not
// follow the session-{n}.md convention is rejected.
func Load(path string) (*Checkpoint, error) {
	dir, base := filepath.Split(filepath.Clean(path))
	m := fileName.FindStringSubmatch(base)
	if m == nil {
		return nil, fmt.Errorf("not a checkpoint file: %s", base)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}
	c, err := parseCheckpoint(data)
	if err != nil {
		return nil, fmt.Errorf("parse checkpoint %s: %w", path, err)
	}

	// sessions/{developer}/{date}/session-{n}.md
	c.Number, _ = strconv.Atoi(m[1])
	dir = filepath.Clean(dir)
	c.Date = filepath.Base(dir)
	c.Developer = filepath.Base(filepath.Dir(dir))
	return c, nil
}

// parseCheckpoint parses the frontmatter and body of a checkpoint file.
func parseCheckpoint(data []byte) (*Checkpoint, error) {
	if !bytes.HasPrefix(data, []byte("---")) {
		return nil, errors.New("checkpoint must start with YAML frontmatter (---)")
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	var frontmatterLines []string
	var contentLines []string
	inFrontmatter := false
	foundEnd := false

	lineNum := 0
	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 && line == "---" {
			inFrontmatter = true
			continue
		}
		if inFrontmatter && line == "---" {
			inFrontmatter = false
			foundEnd = true
			continue
		}
		if inFrontmatter {
			frontmatterLines = append(frontmatterLines, line)
		} else if foundEnd {
			contentLines = append(contentLines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan content: %w", err)
	}
	if !foundEnd {
		return nil, errors.New("checkpoint frontmatter not closed (missing ---)")
	}

	c := &Checkpoint{}
	frontmatter := strings.Join(frontmatterLines, "\n")
	if err := yaml.Unmarshal([]byte(frontmatter), c); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	c.Content = strings.TrimSpace(strings.Join(contentLines, "\n"))
	return c, nil
}

// NextNumber returns the next free session number for a developer and date,
// starting at 1 when the day has no checkpoints yet.
func NextNumber(root, developer, date string) (int, error) {
	dir := filepath.Join(root, developer, date)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read session directory: %w", err)
	}

	max := 0
	for _, e := range entries {
		m := fileName.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	return max + 1, nil
}

// List returns all of a developer's checkpoints under root, ordered by date
// then session number.
func List(root, developer string) ([]*Checkpoint, error) {
	devDir := filepath.Join(root, developer)
	days, err := os.ReadDir(devDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read developer directory: %w", err)
	}

	var checkpoints []*Checkpoint
	for _, day := range days {
		if !day.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(devDir, day.Name()))
		if err != nil {
			return nil, fmt.Errorf("read day directory: %w", err)
		}
		for _, f := range files {
			if fileName.FindStringSubmatch(f.Name()) == nil {
				continue
			}
			c, err := Load(filepath.Join(devDir, day.Name(), f.Name()))
			if err != nil {
				return nil, err
			}
			checkpoints = append(checkpoints, c)
		}
	}

	sort.Slice(checkpoints, func(i, j int) bool {
		if checkpoints[i].Date != checkpoints[j].Date {
			return checkpoints[i].Date < checkpoints[j].Date
		}
		return checkpoints[i].Number < checkpoints[j].Number
	})
	return checkpoints, nil
}
