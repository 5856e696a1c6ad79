package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/jimyag/ansigo-inventory/pkg/errors"
	"github.com/jimyag/ansigo-inventory/pkg/logger"
)

// DefaultExtensions 是被识别为 YAML 的文件扩展名（不区分大小写）
var DefaultExtensions = []string{".yml", ".yaml"}

// Loader 递归扫描目录并解析其中的 YAML 文件
type Loader struct {
	fs         afs.Service
	extensions []string
	excludes   []glob.Glob
}

// Option 配置 Loader
type Option func(*Loader) error

// WithExcludes 跳过相对路径匹配任一 glob 的文件或目录
func WithExcludes(patterns ...string) Option {
	return func(l *Loader) error {
		for _, pattern := range patterns {
			g, err := glob.Compile(pattern, '/')
			if err != nil {
				return errors.NewInvalidArgsError(fmt.Sprintf("invalid exclude pattern %q: %v", pattern, err))
			}
			l.excludes = append(l.excludes, g)
		}
		return nil
	}
}

// WithExtensions 替换默认的扩展名列表
func WithExtensions(exts ...string) Option {
	return func(l *Loader) error {
		l.extensions = l.extensions[:0]
		for _, ext := range exts {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			l.extensions = append(l.extensions, strings.ToLower(ext))
		}
		return nil
	}
}

// New 创建一个新的 Loader
func New(opts ...Option) (*Loader, error) {
	l := &Loader{
		fs:         afs.New(),
		extensions: append([]string(nil), DefaultExtensions...),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Load 递归扫描 root，返回所有成功解析且非空的文档，按完整路径的字典序排列
// （a.yml 排在 a/b.yml 之前）。单个文件的读取或解析失败只记录警告，不会中断扫描。
func (l *Loader) Load(ctx context.Context, root string) ([]Document, error) {
	var documents []Document

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			logger.FileWarning(errors.NewReadError(path, walkErr))
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if path != root && l.excluded(root, path) {
			logger.Debugf("Skipping excluded path %s", path)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !l.isYAML(path) || !isRegular(path, d) {
			return nil
		}

		doc, ok := l.loadFile(ctx, path)
		if ok {
			documents = append(documents, doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// WalkDir 只在同一目录内有序，这里按完整路径重新排序
	sort.SliceStable(documents, func(i, j int) bool {
		return filepath.ToSlash(documents[i].Path) < filepath.ToSlash(documents[j].Path)
	})

	logger.Infof("Loaded %d YAML documents from %s", len(documents), root)
	return documents, nil
}

// loadFile 读取并解析单个文件，失败时记录警告并返回 false
func (l *Loader) loadFile(ctx context.Context, path string) (Document, bool) {
	location, err := filepath.Abs(path)
	if err != nil {
		location = path
	}

	data, err := l.fs.DownloadWithURL(ctx, location)
	if err != nil {
		logger.FileWarning(errors.NewReadError(path, err))
		return Document{}, false
	}

	root, err := Parse(data)
	if err != nil {
		logger.FileWarning(errors.NewParseError(path, err))
		return Document{}, false
	}
	if IsEmpty(root) {
		logger.Debugf("Skipping empty document %s", path)
		return Document{}, false
	}

	return Document{Path: path, Root: root}, true
}

// Parse 解析单文档 YAML 流；空流返回 nil，多文档流返回错误
func Parse(data []byte) (*yaml.Node, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}

	var extra yaml.Node
	switch err := decoder.Decode(&extra); err {
	case io.EOF:
	case nil:
		return nil, fmt.Errorf("expected a single document in the stream")
	default:
		return nil, err
	}

	return Resolve(&doc), nil
}

func (l *Loader) isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range l.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (l *Loader) excluded(root, path string) bool {
	if len(l.excludes) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, g := range l.excludes {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// isRegular 普通文件，或指向普通文件的符号链接
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
