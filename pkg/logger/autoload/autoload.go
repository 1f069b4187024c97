// Package autoload configures the global logger on import:
//
//	import _ "github.com/roamfit/roamfit/pkg/logger/autoload"
package autoload

import (
	"github.com/kelseyhightower/envconfig"

	logx "github.com/roamfit/roamfit/pkg/logger"
)

func init() {
	var conf logx.Config
	if err := envconfig.Process("LOG", &conf); err != nil {
		conf = *logx.DefaultConfig
	}
	logx.Init(conf)
}
