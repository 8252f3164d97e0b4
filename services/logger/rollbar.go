package logsvc

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/kazi/core"
)

// RollbarLogger prints to a std logger and reports to rollbar once enabled.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil) // interface compliance check

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(strings.ToLower(conf.Env))
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(false)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// split separates the request Actor from the rollbar arguments.
// expected args: error, map[string]interface{}, core.Actor
func split(args []interface{}) (actor *core.Actor, rest []interface{}) {
	rest = make([]interface{}, 0, len(args))
	for _, arg := range args {
		switch a := arg.(type) {
		case core.Actor:
			if actor == nil { // only keep the first one
				actor = &a
			}
		case *core.Actor:
			if actor == nil && a != nil {
				actor = a
			}
		default:
			rest = append(rest, arg)
		}
	}
	return actor, rest
}

func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	actor, rest := split(args)
	if actor != nil && actor.ID != "" {
		rollbar.SetPerson(actor.ID, actor.Username, actor.Email)
	} else {
		rollbar.ClearPerson()
	}
	return append([]interface{}{msg}, rest...)
}

func (l RollbarLogger) print(level, msg string, args []interface{}) {
	actor, rest := split(args)
	line := level + " " + msg
	if actor != nil && actor.ID != "" {
		line += " actor=" + actor.ID
	}
	for _, arg := range rest {
		if fields, ok := arg.(map[string]interface{}); ok {
			line += " " + formatFields(fields)
			continue
		}
		line += fmt.Sprintf(" %+v", arg)
	}
	l.std.Println(line)
}

func formatFields(fields map[string]interface{}) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, args)...)
	l.print("DEBUG", msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.print("INFO", msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.print("WARN", msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.print("ERROR", msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	l.print("FATAL", msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}
