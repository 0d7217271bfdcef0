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
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestConfigureLogging(t *testing.T) {
	require := require.New(t)

	level := logrus.GetLevel()
	defer logrus.SetLevel(level)

	require.NoError(ConfigureLogging(Config{LogLevel: "warn", LogFormat: "json"}))
	require.Equal(logrus.WarnLevel, logrus.GetLevel())

	require.NoError(ConfigureLogging(Config{LogLevel: "error", Debug: true}))
	require.Equal(logrus.DebugLevel, logrus.GetLevel())

	err := ConfigureLogging(Config{LogLevel: "loud"})
	require.True(ErrInvalidConfig.Is(err))

	err = ConfigureLogging(Config{LogFormat: "xml"})
	require.True(ErrInvalidConfig.Is(err))

	logrus.SetFormatter(&logrus.TextFormatter{})
}
