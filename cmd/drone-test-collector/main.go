// Copyright 2020 the Drone Authors. All rights reserved.
// Use of this source code is governed by the Blue Oak Model License
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"github.com/drone/drone-test-collector/plugin"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	// a local .env file is optional and only used outside of a pipeline.
	envfile := os.Getenv("PLUGIN_ENV_FILE")
	if envfile == "" {
		envfile = ".env"
	}
	if err := godotenv.Load(envfile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.WithError(err).Fatalf("Failed to load %s", envfile)
	}

	var args plugin.Args
	if err := envconfig.Process("", &args); err != nil {
		logrus.Fatalln(err)
	}

	level := logrus.InfoLevel
	if args.Level != "" {
		parsed, err := logrus.ParseLevel(args.Level)
		if err != nil {
			logrus.WithError(err).Warnf("Unknown log level %q, using info", args.Level)
		} else {
			level = parsed
		}
	}
	logrus.SetLevel(level)

	if err := plugin.Exec(context.Background(), args); err != nil {
		logrus.Fatalln(err)
	}
}
