package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jimyag/ansigo-inventory/pkg/errors"
	"github.com/jimyag/ansigo-inventory/pkg/inventory"
	"github.com/jimyag/ansigo-inventory/pkg/loader"
	"github.com/jimyag/ansigo-inventory/pkg/logger"
)

// DirectoryEnv 未指定 --directory 时使用的环境变量
const DirectoryEnv = "ANSIGO_INVENTORY_DIR"

const (
	exitOK          = 0
	exitNoDocuments = 1
	exitUsage       = 2
)

// options 命令行参数
type options struct {
	list      bool
	host      string
	directory string
	excludes  stringList
	verbose   bool
}

// stringList 可重复的字符串参数
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Getenv, os.Stdout, os.Stderr))
}

// parseOptions 解析命令行参数
func parseOptions(args []string, getenv func(string) string, stderr io.Writer) (*options, error) {
	opts := &options{directory: "."}
	if dir := getenv(DirectoryEnv); dir != "" {
		opts.directory = dir
	}

	fs := flag.NewFlagSet("ansigo-inventory", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.list, "list", true, "List all groups and hosts (default)")
	fs.StringVar(&opts.host, "host", "", "Print variables for a single host")
	fs.StringVar(&opts.directory, "directory", opts.directory, "Directory to scan for YAML files")
	fs.StringVar(&opts.directory, "d", opts.directory, "Shorthand for --directory")
	fs.Var(&opts.excludes, "exclude", "Glob of paths (relative to the directory) to skip, repeatable")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose mode")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, err
		}
		return nil, errors.NewInvalidArgsError(err.Error())
	}
	if fs.NArg() > 0 {
		return nil, errors.NewInvalidArgsError(fmt.Sprintf("unexpected arguments: %s", strings.Join(fs.Args(), " ")))
	}
	return opts, nil
}

// run 执行一次查询并返回进程退出码
func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, getenv, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return exitUsage
	}

	// 初始化日志系统，诊断信息只写 stderr
	logger.Init(&logger.Config{
		Level:  logger.WarnLevel,
		Output: stderr,
		Pretty: true,
	})
	if opts.verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	l, err := loader.New(loader.WithExcludes(opts.excludes...))
	if err != nil {
		logger.Errorf("%v", err)
		return exitUsage
	}

	invMgr := inventory.NewManager(l)
	if err := invMgr.Load(ctx, opts.directory); err != nil {
		if errors.IsType(err, errors.ErrNoDocuments) {
			logger.Debugf("%v", err)
			fmt.Fprintln(stderr, "{}")
			return exitNoDocuments
		}
		logger.Errorf("Failed to load inventory: %v", err)
		return exitUsage
	}

	// --host 优先于 --list
	var out interface{} = invMgr.Inventory()
	if opts.host != "" {
		out = invMgr.HostVars(opts.host)
	}

	if err := inventory.Render(stdout, out); err != nil {
		logger.Errorf("%v", err)
		return exitUsage
	}
	return exitOK
}
