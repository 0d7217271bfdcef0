// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bqsql

import (
	"github.com/sirupsen/logrus"
)

// ConfigureLogging sets the level and format of the standard logger.
func ConfigureLogging(cfg Config) error {
	if cfg.LogLevel != "" {
		lvl, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return ErrInvalidConfig.Wrap(err, "log_level", cfg.LogLevel)
		}
		logrus.SetLevel(lvl)
	}

	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	switch cfg.LogFormat {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return ErrInvalidConfig.New("log_format", cfg.LogFormat)
	}

	return nil
}
