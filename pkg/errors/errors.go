// Package errors 提供统一的错误处理框架
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code 错误码
type Code string

const (
	// 通用错误码
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeTimeout      Code = "TIMEOUT"

	// 优化引擎相关
	CodeValidationFail     Code = "VALIDATION_FAILED"  // 输入字段缺失或非法
	CodeModelConstruction  Code = "MODEL_CONSTRUCTION" // 模型结构性不可构建
	CodeNoFeasibleSolution Code = "NO_FEASIBLE_SOLUTION"
	CodeSolverNotFinished  Code = "SOLVER_NOT_FINISHED"

	// 数据相关
	CodeDatabaseError Code = "DATABASE_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code       Code                   `json:"code"`
	Message    string                 `json:"message"`
	HTTPStatus int                    `json:"-"`
	Cause      error                  `json:"-"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause 添加原因
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithField 添加字段
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// New 创建新错误
func New(code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatusFor(code),
	}
}

// Newf 按格式创建新错误
func Newf(code Code, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Validation 创建输入校验错误
func Validation(format string, args ...interface{}) *AppError {
	return Newf(CodeValidationFail, format, args...)
}

// ModelConstruction 创建模型构建错误
func ModelConstruction(format string, args ...interface{}) *AppError {
	return Newf(CodeModelConstruction, format, args...)
}

// Wrap 包装底层错误
func Wrap(code Code, message string, cause error) *AppError {
	return New(code, message).WithCause(cause)
}

// httpStatusFor 映射错误码到 HTTP 状态
func httpStatusFor(code Code) int {
	switch code {
	case CodeInvalidInput, CodeValidationFail, CodeModelConstruction:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTimeout, CodeSolverNotFinished:
		return http.StatusGatewayTimeout
	case CodeNoFeasibleSolution:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf 提取错误码；非 AppError 返回 CodeUnknown
func CodeOf(err error) Code {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// IsValidation 检查是否为输入校验错误
func IsValidation(err error) bool {
	return CodeOf(err) == CodeValidationFail
}

// IsModelConstruction 检查是否为模型构建错误
func IsModelConstruction(err error) bool {
	return CodeOf(err) == CodeModelConstruction
}
