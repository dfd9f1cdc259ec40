package model

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/fyerfyer/study-planner/internal/study"
)

// RegisterValidators 向gin的校验器注册自定义规则
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("isodate", isoDate)
}

// isoDate 校验 YYYY-MM-DD 格式的日期
func isoDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(study.DateLayout, fl.Field().String())
	return err == nil
}
