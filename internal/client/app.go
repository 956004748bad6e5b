package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/chzyer/readline"
	"github.com/mdouchement/findit/pkg/libfi"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// An App runs the findit commands.
type App struct {
	Env    Env
	Logger *logrus.Logger
	Out    io.Writer
}

// New returns a new App configured from the environment.
func New() (*App, error) {
	env, err := LoadEnv()
	if err != nil {
		return nil, err
	}

	return &App{
		Env:    env,
		Logger: NewLogger(env.LogFile, env.Verbose),
		Out:    os.Stdout,
	}, nil
}

// Crash logs a recovered panic with its stack and exits.
func (a *App) Crash(r any) {
	stack := make([]byte, 4<<10)
	length := runtime.Stack(stack, true)
	a.Logger.Errorf("[PANIC RECOVER] %v %s", r, stack[:length])

	fmt.Fprintln(a.Out, MessageGeneric)
	os.Exit(2)
}

func (a *App) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.Env.Timeout)
}

func (a *App) printer() *printer {
	return newPrinter(a.Out, a.Logger)
}

// repository returns an ItemRepository acting on behalf of the stored session.
func (a *App) repository() (*libfi.ItemRepository, error) {
	cfg, err := Load(a.Env.Credentials)
	if err != nil {
		return nil, err
	}
	if cfg.Session.Expired() {
		return nil, errors.New("session expired, please login again")
	}

	client, err := libfi.NewDefaultClient(cfg.Endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "could not reach FindIt endpoint")
	}

	return libfi.NewItemRepository(client, cfg.Session, libfi.WithLogger(a.Logger)), nil
}

// await drains the stream, logging every emission, and returns its terminal state.
func await[T any](logger *logrus.Logger, stream <-chan libfi.Resource[T]) libfi.Resource[T] {
	last := libfi.Idle[T]()
	for r := range stream {
		dump(logger, r.State().String(), r)
		last = r
	}
	return last
}

// failure logs the message of a failed resource and returns it as an error.
func failure[T any](logger logrus.FieldLogger, r libfi.Resource[T]) error {
	logger.Error(r.Message())
	return errors.New(r.Message())
}

func prompt(label string) (string, error) {
	line, err := readline.Line(label)
	return line, errors.Wrapf(err, "could not read %s from stdin", label)
}
