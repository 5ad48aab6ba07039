package postgres

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technova/ventas-api/internal/domain"
)

// ──────────────────────────────────────────────────────────────────────────────
// Política de reintento ante conflictos de serialización
// ──────────────────────────────────────────────────────────────────────────────

func serializationErr(code string) error {
	return fmt.Errorf("commit transaction: %w", &pgconn.PgError{Code: code})
}

func TestRetryOnSerialization_ExitoAlPrimerIntento(t *testing.T) {
	calls := 0
	err := retryOnSerialization(func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryOnSerialization_FalloTransitorio_ReintentaExactamenteUnaVez(t *testing.T) {
	calls := 0
	err := retryOnSerialization(func() error {
		calls++
		if calls == 1 {
			return serializationErr("40001")
		}
		return nil
	})
	require.NoError(t, err, "el reintento debe absorber un fallo de serialización aislado")
	assert.Equal(t, 2, calls)
}

func TestRetryOnSerialization_DobleFallo_DevuelveErrConflict(t *testing.T) {
	calls := 0
	err := retryOnSerialization(func() error {
		calls++
		return serializationErr("40P01")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict,
		"un segundo fallo transitorio debe mapear a ErrConflict")
	assert.Equal(t, 2, calls, "nunca más de un reintento")
}

func TestRetryOnSerialization_ErrorDeNegocio_NoSeReintenta(t *testing.T) {
	calls := 0
	err := retryOnSerialization(func() error {
		calls++
		return domain.ErrInsufficientStock
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NotErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, calls, "un rechazo de negocio se devuelve tal cual, sin reintento")
}

func TestIsSerializationFailure_SoloCodigosTransitorios(t *testing.T) {
	assert.True(t, isSerializationFailure(serializationErr("40001")))
	assert.True(t, isSerializationFailure(serializationErr("40P01")))
	assert.False(t, isSerializationFailure(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isSerializationFailure(domain.ErrInsufficientStock))
	assert.False(t, isSerializationFailure(nil))
}
