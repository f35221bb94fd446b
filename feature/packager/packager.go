package packager

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"dirpack/core/config"
	"dirpack/core/ignore"
	"dirpack/core/tree"

	"go.uber.org/zap"
)

// Stats summarizes a scan run.
type Stats struct {
	// Directories is the number of directories retained in the tree.
	Directories int
	// Files is the number of files retained in the tree.
	Files int
	// Ignored is the number of entries excluded by ignore rules.
	Ignored int
}

// Packager scans directory trees under a fixed policy.
type Packager struct {
	cfg     *config.Config
	matcher *ignore.Matcher
	log     *zap.Logger
	stats   Stats
}

// New creates a packager bound to a policy and an ignore matcher.
func New(cfg *config.Config, matcher *ignore.Matcher, log *zap.Logger) *Packager {
	return &Packager{cfg: cfg, matcher: matcher, log: log}
}

// Stats returns the statistics from the last scan.
func (p *Packager) Stats() Stats {
	return p.stats
}

// Scan walks the subtree rooted at rootPath and returns its tree model.
// The root must exist and be a directory; everything below it is
// best-effort, with unreadable entries marked instead of aborting.
func (p *Packager) Scan(rootPath string) (*tree.DirNode, error) {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory %s: %w", rootPath, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("root directory %s does not exist: %w", rootPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", rootPath)
	}

	p.stats = Stats{}

	root := &tree.DirNode{
		Name:        filepath.Base(abs),
		Path:        abs,
		GeneratedAt: time.Now(),
	}
	p.scanDir(abs, "", root)
	return root, nil
}

// scanDir fills node with the retained children of absDir. relDir is the
// slash-separated path of absDir relative to the scan root ("" for the
// root itself).
func (p *Packager) scanDir(absDir, relDir string, node *tree.DirNode) {
	entries, err := os.ReadDir(absDir)
	if err != nil {
		p.log.Warn("Could not read directory", zap.String("path", absDir), zap.Error(err))
		node.Err = err.Error()
		return
	}

	// Directories first, then case-insensitive name order.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	node.Children = make([]tree.Node, 0, len(entries))
	for _, entry := range entries {
		rel := path.Join(relDir, entry.Name())

		if rule, ignored := p.matcher.Match(rel, entry.IsDir()); ignored {
			p.stats.Ignored++
			p.log.Debug("Ignoring entry",
				zap.String("path", rel),
				zap.String("rule", string(rule)),
			)
			continue
		}

		if entry.IsDir() {
			p.stats.Directories++
			child := &tree.DirNode{Name: entry.Name()}
			p.scanDir(filepath.Join(absDir, entry.Name()), rel, child)
			node.Children = append(node.Children, child)
			continue
		}

		p.stats.Files++
		node.Children = append(node.Children, p.scanFile(filepath.Join(absDir, entry.Name()), entry))
	}
}

// scanFile builds the file node for a retained entry. Failures are
// captured in the node rather than returned.
func (p *Packager) scanFile(absPath string, entry os.DirEntry) *tree.FileNode {
	info, err := entry.Info()
	if err != nil {
		p.log.Warn("Could not stat file", zap.String("path", absPath), zap.Error(err))
		return &tree.FileNode{Name: entry.Name(), Err: err.Error()}
	}

	node := &tree.FileNode{
		Name:      entry.Name(),
		Size:      info.Size(),
		Modified:  info.ModTime(),
		Extension: strings.ToLower(filepath.Ext(entry.Name())),
	}

	if !p.shouldCapture(node.Extension, node.Size) {
		p.log.Debug("Skipping content capture",
			zap.String("path", absPath),
			zap.Int64("size", node.Size),
		)
		return node
	}

	node.Content = p.capture(absPath)
	return node
}

// shouldCapture applies the capture policy: global switch, size ceiling,
// whitelist, then blacklist.
func (p *Packager) shouldCapture(extension string, size int64) bool {
	if !p.cfg.CaptureContents {
		return false
	}
	if size > p.cfg.MaxContentSize {
		return false
	}
	if len(p.cfg.CaptureExtensions) > 0 && !containsExtension(p.cfg.CaptureExtensions, extension) {
		return false
	}
	if containsExtension(p.cfg.NoCaptureExtensions, extension) {
		return false
	}
	return true
}

// capture reads the file and classifies its content. A read failure
// becomes an error-kind content; undecodable text falls back to binary.
func (p *Packager) capture(absPath string) *tree.Content {
	raw, err := os.ReadFile(absPath)
	if err != nil {
		p.log.Warn("Could not read file contents", zap.String("path", absPath), zap.Error(err))
		return tree.ErrorContent(err.Error())
	}
	if data, encodingName, ok := tree.DetectText(raw); ok {
		return tree.TextContent(data, encodingName)
	}
	return tree.BinaryContent(raw)
}

func containsExtension(list []string, extension string) bool {
	for _, e := range list {
		if strings.EqualFold(e, extension) {
			return true
		}
	}
	return false
}
