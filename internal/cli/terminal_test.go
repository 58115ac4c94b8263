package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pos-register/internal/catalog"
	"github.com/angelmondragon/pos-register/internal/loyalty"
	"github.com/angelmondragon/pos-register/internal/payment"
	"github.com/angelmondragon/pos-register/internal/session"
)

func newTerminal(t *testing.T) (*Terminal, session.Service, *bytes.Buffer) {
	t.Helper()
	provider, err := catalog.NewStatic(catalog.DefaultMenu())
	require.NoError(t, err)
	o, err := session.NewOrchestrator(provider, loyalty.NewAccount(150), payment.NewDesk(10))
	require.NoError(t, err)
	svc, err := session.NewService(session.ServiceParams{RegisterID: "register-1", Orchestrator: o})
	require.NoError(t, err)

	var out bytes.Buffer
	term, err := NewTerminal(svc, &out)
	require.NoError(t, err)
	return term, svc, &out
}

func TestScriptedSale(t *testing.T) {
	term, svc, out := newTerminal(t)
	script := strings.Join([]string{
		"# morning rush",
		"add espresso",
		"add espresso",
		"pay card",
		"ack",
		"quit",
		"add latte",
	}, "\n")

	require.NoError(t, term.Run(context.Background(), strings.NewReader(script)))

	text := out.String()
	assert.Contains(t, text, "total 5.00 | loyalty 150 pts")
	assert.Contains(t, text, "awaiting card payment of 5.00")
	assert.Contains(t, text, "paid 5.00 by card, +50 pts (balance 200)")

	snap := svc.Snapshot(context.Background())
	assert.Empty(t, snap.Lines, "lines after quit must not run")
	assert.Equal(t, int64(200), snap.LoyaltyPoints)
}

func TestRunStopsOnCancelWhileReadBlocks(t *testing.T) {
	term, svc, _ := newTerminal(t)
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	result := make(chan error, 1)
	go func() { result <- term.Run(ctx, pr) }()

	go func() { _, _ = pw.Write([]byte("add espresso\n")) }()
	require.Eventually(t, func() bool {
		return len(svc.Snapshot(context.Background()).Lines) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-result:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestKeypadRunsAreExpanded(t *testing.T) {
	term, svc, out := newTerminal(t)
	ctx := context.Background()

	require.NoError(t, term.Exec(ctx, "add latte"))
	require.NoError(t, term.Exec(ctx, "focus latte price"))
	require.NoError(t, term.Exec(ctx, "key 3.99"))
	assert.Contains(t, out.String(), `entry latte [price]: "3.99"`)

	require.NoError(t, term.Exec(ctx, "enter"))
	snap := svc.Snapshot(ctx)
	assert.Equal(t, "3.99", snap.Lines[0].Price.StringFixed(2))
}

func TestRejectedCommandsKeepRunning(t *testing.T) {
	term, svc, out := newTerminal(t)
	script := "ack\nadd bagel\nqty latte two\nadd water\n"

	require.NoError(t, term.Run(context.Background(), strings.NewReader(script)))

	text := out.String()
	assert.Contains(t, text, "rejected [INVALID_OPERATION]")
	assert.Contains(t, text, "rejected [NOT_FOUND]")
	assert.Contains(t, text, "rejected [PARSE_ERROR]")
	assert.Len(t, svc.Snapshot(context.Background()).Lines, 1)
}

func TestUnknownCommand(t *testing.T) {
	term, _, _ := newTerminal(t)
	err := term.Exec(context.Background(), "refund everything")
	require.Error(t, err)
}

func TestMenuAndShow(t *testing.T) {
	term, _, out := newTerminal(t)
	ctx := context.Background()

	require.NoError(t, term.Exec(ctx, "menu"))
	assert.Contains(t, out.String(), "Blueberry Muffin")

	out.Reset()
	require.NoError(t, term.Exec(ctx, "show"))
	assert.Contains(t, out.String(), "(cart empty)")
}

func TestParseKeys(t *testing.T) {
	keys, err := parseKeys([]string{"12", "backspace", "."})
	require.NoError(t, err)
	require.Len(t, keys, 4)
	assert.Equal(t, "1", keys[0].String())
	assert.Equal(t, "backspace", keys[2].String())

	_, err = parseKeys([]string{"12a"})
	require.Error(t, err)
}
