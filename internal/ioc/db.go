package ioc

import (
	"github.com/ego-component/egorm"
)

// InitDB 配置来自 mysql 段
func InitDB() *egorm.Component {
	return egorm.Load("mysql").Build()
}
