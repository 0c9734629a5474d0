/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"log"

	"github.com/mfreeman451/beatradar/pkg/config"
	"github.com/mfreeman451/beatradar/pkg/lifecycle"
	"github.com/mfreeman451/beatradar/pkg/logger"
	"github.com/mfreeman451/beatradar/pkg/server"
)

// Version is set at build time.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to config file (JSON or YAML)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	appLogger, err := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, Version, appLogger)
	if err != nil {
		return err
	}

	return lifecycle.RunServer(context.Background(), &lifecycle.ServerOptions{
		ListenAddr:           cfg.GRPCAddr,
		ServiceName:          "beatradar",
		Service:              srv,
		RegisterGRPCServices: []lifecycle.GRPCServiceRegistrar{srv.RegisterGRPC},
		EnableHealthCheck:    true,
		Logger:               appLogger,
	})
}
