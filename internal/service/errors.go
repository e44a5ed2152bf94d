package service

import (
	"Subfapp/internal/ranking"
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

const (
	BadRequest          = 400
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrParamInvalid     = errors.New("参数错误")
	ErrInvalidVoteValue = errors.New("投票值只能是 -1、0 或 1")
	ErrPostNotFound     = errors.New("帖子不存在")
	ErrUnknownSort      = ranking.ErrUnknownSort
	ErrStore            = errors.New("数据存储异常，请稍后重试")
	ErrJobRunning       = errors.New("任务正在执行")
	UnExpectedError     = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:     BadRequest,
	ErrInvalidVoteValue: BadRequest,
	ErrPostNotFound:     NotFound,
	ErrUnknownSort:      BadRequest,
	ErrStore:            InternalServerError,
	ErrJobRunning:       Conflict,
	UnExpectedError:     InternalServerError,
}

// StoreError 读写数据源失败，调用方可以重试
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: pkgerrors.WithStack(err)}
}

// LookupCode 找到 err 链上第一个已登记的业务错误
func LookupCode(err error) (error, int, bool) {
	for known, code := range ErrorMap {
		if errors.Is(err, known) {
			return known, code, true
		}
	}
	return nil, InternalServerError, false
}
