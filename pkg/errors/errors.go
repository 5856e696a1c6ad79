package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType 定义错误类型
type ErrorType int

const (
	// ErrRead 文件读取失败
	ErrRead ErrorType = iota
	// ErrParse YAML 解析失败
	ErrParse
	// ErrNoDocuments 扫描目录中没有任何可用的 YAML 文档
	ErrNoDocuments
	// ErrInvalidArgs 参数错误
	ErrInvalidArgs
	// ErrRender JSON 输出失败
	ErrRender
)

// String 返回错误类型名称
func (t ErrorType) String() string {
	switch t {
	case ErrRead:
		return "read"
	case ErrParse:
		return "parse"
	case ErrNoDocuments:
		return "no_documents"
	case ErrInvalidArgs:
		return "invalid_args"
	case ErrRender:
		return "render"
	default:
		return "unknown"
	}
}

// InventoryError 统一的 inventory 错误类型
type InventoryError struct {
	Type    ErrorType // 错误类型
	Path    string    // 相关文件或目录（如果适用）
	Message string    // 错误消息
	Cause   error     // 原始错误
}

func (e *InventoryError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

func (e *InventoryError) Unwrap() error {
	return e.Cause
}

// NewReadError 创建读取错误
func NewReadError(filePath string, cause error) *InventoryError {
	return &InventoryError{
		Type:    ErrRead,
		Path:    filePath,
		Message: fmt.Sprintf("could not read file: %v", cause),
		Cause:   cause,
	}
}

// NewParseError 创建解析错误
func NewParseError(filePath string, cause error) *InventoryError {
	return &InventoryError{
		Type:    ErrParse,
		Path:    filePath,
		Message: fmt.Sprintf("could not parse YAML: %v", cause),
		Cause:   cause,
	}
}

// NewNoDocumentsError 创建目录为空错误
func NewNoDocumentsError(dir string) *InventoryError {
	return &InventoryError{
		Type:    ErrNoDocuments,
		Path:    dir,
		Message: "no YAML documents found",
	}
}

// NewInvalidArgsError 创建参数错误
func NewInvalidArgsError(msg string) *InventoryError {
	return &InventoryError{
		Type:    ErrInvalidArgs,
		Message: msg,
	}
}

// NewRenderError 创建输出错误
func NewRenderError(cause error) *InventoryError {
	return &InventoryError{
		Type:    ErrRender,
		Message: fmt.Sprintf("could not render inventory: %v", cause),
		Cause:   cause,
	}
}

// IsType 判断 err 链中是否包含指定类型的 InventoryError
func IsType(err error, t ErrorType) bool {
	var invErr *InventoryError
	if stderrors.As(err, &invErr) {
		return invErr.Type == t
	}
	return false
}
