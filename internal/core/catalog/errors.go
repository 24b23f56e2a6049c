package catalog

import "errors"

// 目錄核心共用的 sentinel errors，呼叫端以 errors.Is 判斷
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrParse           = errors.New("parse error")
	ErrPersist         = errors.New("persist failed")
)
