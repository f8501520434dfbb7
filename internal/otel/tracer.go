package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/servease/servease/internal/constants"
)

var Tracer = otel.Tracer(constants.APP_MAIN_SERVEASE)
