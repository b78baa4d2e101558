// Copyright 2025 The Alertae Authors
// SPDX-License-Identifier: Apache-2.0

package alerts

import (
	"errors"
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jcodagnone/alertae/spatial"
)

var registerOnce sync.Once

// RegisterValidators adds the lat and lng tags to gin's validator.
func RegisterValidators() error {
	var err error

	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("unexpected gin validator engine")

			return
		}

		err = errors.Join(
			v.RegisterValidation("lat", floatValidator(spatial.ValidLatitude)),
			v.RegisterValidation("lng", floatValidator(spatial.ValidLongitude)),
		)
	})

	return err
}

func floatValidator(valid func(float64) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		f := fl.Field()
		for f.Kind() == reflect.Ptr {
			if f.IsNil() {
				return true
			}

			f = f.Elem()
		}

		switch f.Kind() {
		case reflect.Float32, reflect.Float64:
			return valid(f.Float())
		default:
			return false
		}
	}
}
