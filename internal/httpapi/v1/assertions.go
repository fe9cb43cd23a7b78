package v1

import (
    "costbook/internal/service/daysheet"
    "costbook/internal/service/payment"
    "costbook/internal/service/project"
    "costbook/internal/storage/memory"
)

// Compile-time interface assertions for the in-memory Store against HTTP API interfaces.
var (
    _ Repository      = (*memory.Store)(nil)
    _ payment.Writer  = (*memory.Store)(nil)
    _ daysheet.Writer = (*memory.Store)(nil)
    _ project.Writer  = (*memory.Store)(nil)
)
