// pkg/recorder/postgres_test.go

package recorder

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureConnector is a database/sql connector that records executed
// statements instead of talking to a server.
type captureConnector struct {
	mu    sync.Mutex
	execs []capturedExec
	err   error
}

type capturedExec struct {
	query string
	args  []driver.NamedValue
}

func (c *captureConnector) Connect(context.Context) (driver.Conn, error) { return &captureConn{c}, nil }
func (c *captureConnector) Driver() driver.Driver                        { return captureDriver{c} }

type captureDriver struct{ c *captureConnector }

func (d captureDriver) Open(string) (driver.Conn, error) { return &captureConn{d.c}, nil }

type captureConn struct{ c *captureConnector }

func (c *captureConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare unsupported")
}
func (c *captureConn) Close() error              { return nil }
func (c *captureConn) Begin() (driver.Tx, error) { return nil, errors.New("tx unsupported") }

func (c *captureConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.c.mu.Lock()
	defer c.c.mu.Unlock()
	c.c.execs = append(c.c.execs, capturedExec{query: query, args: args})
	if c.c.err != nil {
		return nil, c.c.err
	}
	return driver.RowsAffected(1), nil
}

func TestPostgresRecordInsertsRow(t *testing.T) {
	conn := &captureConnector{}
	p := NewPostgres(sql.OpenDB(conn))
	defer p.Close()

	require.NoError(t, p.EnsureSchema(context.Background()))
	require.NoError(t, p.Record(context.Background(), sampleEntry()))

	require.Len(t, conn.execs, 2)
	assert.Contains(t, conn.execs[0].query, "CREATE TABLE IF NOT EXISTS invoices")

	insert := conn.execs[1]
	assert.True(t, strings.Contains(insert.query, "INSERT INTO invoices"))
	require.Len(t, insert.args, 15)
	assert.Equal(t, "IN-1", insert.args[0].Value)
	assert.Equal(t, "09.03.2024", insert.args[1].Value)
	assert.Equal(t, `{"Widget","Gadget"}`, insert.args[6].Value)
	assert.Equal(t, `{"2","1"}`, insert.args[7].Value)
	assert.Equal(t, "209.50", insert.args[9].Value)
	assert.Equal(t, "169.50", insert.args[14].Value)
}

func TestPostgresRecordError(t *testing.T) {
	boom := errors.New("connection reset")
	p := NewPostgres(sql.OpenDB(&captureConnector{err: boom}))
	defer p.Close()

	err := p.Record(context.Background(), sampleEntry())
	assert.ErrorIs(t, err, boom)
}
