// Package di provides dependency injection utilities based on samber/do.
package di

import "github.com/samber/do/v2"

// Injector is the samber/do injector interface.
type Injector = do.Injector

// RootScope is the samber/do root scope.
type RootScope = do.RootScope

// New creates a root injector.
var New = do.New

// NewWithOpts creates a root injector with options.
var NewWithOpts = do.NewWithOpts

// Generic functions cannot be re-exported as vars; call them through the
// package:
//   - do.Provide[T](injector, provider)
//   - do.ProvideNamed[T](injector, name, provider)
//   - do.ProvideValue[T](injector, value)
//   - do.Invoke[T](injector)
//   - do.InvokeNamed[T](injector, name)
//   - do.MustInvoke[T](injector)
//   - do.MustInvokeNamed[T](injector, name)
//
// Example:
//
//	injector := di.New()
//	do.Provide(injector, func(i do.Injector) (*MyService, error) {
//	    return &MyService{}, nil
//	})
//	svc := do.MustInvoke[*MyService](injector)
