//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/UnifyEM/uemauth/common"
	"github.com/UnifyEM/uemauth/common/interfaces"
	"github.com/UnifyEM/uemauth/common/null"
	"github.com/UnifyEM/uemauth/common/schema"
	"github.com/UnifyEM/uemauth/common/uemservice"
	"github.com/UnifyEM/uemauth/common/ulogger"
	"github.com/UnifyEM/uemauth/server/api"
	"github.com/UnifyEM/uemauth/server/data"
	"github.com/UnifyEM/uemauth/server/global"
)

var conf *global.ServerConfig
var apiInstance *api.API

func main() {
	command := "foreground"
	if len(os.Args) > 1 {
		command = strings.ToLower(os.Args[1])
	}

	switch command {
	case "version":
		common.Banner(os.Stdout, global.Description, global.Version, global.Build)

	case "foreground", "run":
		startService()

	case "adduser":
		if len(os.Args) != 5 {
			fmt.Println("Usage: adduser <login> <password> <name>")
			exit(1)
		}
		addUser(os.Args[2], os.Args[3], os.Args[4])

	case "config":
		showConfig()

	default:
		usage()
		exit(1)
	}
}

func usage() {
	fmt.Printf("Usage: %s <foreground | adduser <login> <password> <name> | config | version>\n", os.Args[0])
}

func exit(code int) {
	os.Exit(code)
}

func loadConfig() {
	var err error
	conf, err = global.Config()
	if err != nil {
		fmt.Printf("Fatal config error: %v\n", err)
		exit(1)
	}
}

// addUser creates an account without going through the API
func addUser(login, password, name string) {
	loadConfig()

	d, err := data.New(conf, null.Logger())
	if err != nil {
		fmt.Printf("Data error: %s\n", err.Error())
		exit(1)
	}
	defer d.Close()

	meta, err := d.Register(schema.RegistrationRequest{Login: login, Password: password, Name: name})
	if err != nil {
		fmt.Printf("Error adding user: %s\n", err.Error())
		d.Close()
		exit(1)
	}
	fmt.Printf("Added user \"%s\" with ID %s\n", meta.Login, meta.UserID)
}

// showConfig prints the effective configuration with secrets redacted
func showConfig() {
	loadConfig()
	values := conf.SC.Dump()
	for _, key := range conf.SC.Keys() {
		fmt.Printf("%s=%s\n", conf.SC.EnvName(key), values[key])
	}
}

func startService() {
	loadConfig()

	// Create a logger using the loaded configuration
	logger, err := ulogger.New(
		ulogger.WithPrefix(global.LogName),
		ulogger.WithLogFile(conf.SC.Get(global.ConfigLogFile).String()),
		ulogger.WithLogStdout(conf.SC.Get(global.ConfigLogStdout).Bool()),
		ulogger.WithRetention(conf.SC.Get(global.ConfigLogRetention).Int()),
		ulogger.WithDebug(global.Debug))
	if err != nil {
		fmt.Printf("error creating logger: %v\n", err)
		exit(1)
	}
	defer logger.Close()

	apiInstance, err = api.New(conf, logger)
	if err != nil {
		logger.Fatalf(1004, "unable to initialize API: %s", err.Error())
		exit(1)
	}

	s, err := uemservice.New(
		uemservice.WithServiceName(global.Name),
		uemservice.WithServiceVersion(global.Version),
		uemservice.WithServiceBuild(global.Build),
		uemservice.WithLogger(logger),
		uemservice.WithTaskTicker(global.TaskTicker*time.Second),
		uemservice.WithBackgroundFunc(serviceBackground),
		uemservice.WithTasksFunc(serviceTasks),
		uemservice.WithStopFunc(serviceStopping),
		uemservice.WithSEid(1500))
	if err != nil {
		logger.Fatalf(1005, "unable to create service: %s", err.Error())
		exit(1)
	}

	if err = s.Start(); err != nil {
		logger.Fatalf(1006, "service failed: %s", err.Error())
		exit(1)
	}
}

// serviceBackground is launched as a goroutine when the service starts
func serviceBackground(logger interfaces.Logger) {
	if err := apiInstance.Start(); err != nil {
		logger.Fatalf(1010, "API failed: %s", err.Error())
		exit(1)
	}
}

// serviceTasks is called every global.TaskTicker seconds
func serviceTasks(_ interfaces.Logger) {
	apiInstance.Tasks()
}

// serviceStopping is called when the service is about to exit
func serviceStopping(_ interfaces.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	apiInstance.Stop(ctx)
}
