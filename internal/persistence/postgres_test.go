package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPostgresPingWithoutPool(t *testing.T) {
	pg := &Postgres{}
	require.Error(t, pg.Ping(context.Background()))

	var nilPg *Postgres
	require.Error(t, nilPg.Ping(context.Background()))
}

func TestPostgresCloseWithoutPool(t *testing.T) {
	pg := &Postgres{}
	pg.Close()

	var nilPg *Postgres
	nilPg.Close()
}
