// Package log installs the global zap logger as an import side effect:
//
//	import _ "boardgame-service/log"
package log

import (
	"os"

	"go.uber.org/zap"
)

func init() {
	var logger *zap.Logger
	if os.Getenv("APP_ENV") == "production" {
		logger = zap.Must(zap.NewProduction())
	} else {
		logger = zap.Must(zap.NewDevelopment())
	}
	zap.ReplaceGlobals(logger)
}
