package duplicate_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-hris-admin/internal/duplicate"
	"go-hris-admin/internal/form"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDebounce = 20 * time.Millisecond
	waitFor      = time.Second
	tick         = 5 * time.Millisecond
)

type fakeLookup struct {
	mu    sync.Mutex
	calls []string
	Fn    func(ctx context.Context, value string) (bool, error)
}

func (f *fakeLookup) Exists(ctx context.Context, value string) (bool, error) {
	f.mu.Lock()
	f.calls = append(f.calls, value)
	f.mu.Unlock()
	return f.Fn(ctx, value)
}

func (f *fakeLookup) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func taken(values ...string) func(context.Context, string) (bool, error) {
	set := map[string]bool{}
	for _, v := range values {
		set[v] = true
	}
	return func(_ context.Context, value string) (bool, error) {
		return set[value], nil
	}
}

func setupChecker(t *testing.T, fn func(context.Context, string) (bool, error), timeout time.Duration) (*duplicate.Checker, *form.Field, *fakeLookup) {
	t.Helper()
	field := form.NewField("code", "Employee code",
		form.Required(),
		form.Pattern(form.CodePattern, "Code can only contain letters, numbers, hyphens, and underscores"),
	)
	lookup := &fakeLookup{Fn: fn}
	c := duplicate.NewChecker(field, lookup.Exists, duplicate.Options{
		Debounce: testDebounce,
		Timeout:  timeout,
	})
	t.Cleanup(c.Stop)
	return c, field, lookup
}

// change mimics the form: the field value and the checker move together.
func change(c *duplicate.Checker, f *form.Field, value string) {
	f.Set(value)
	c.Change(value)
}

func wait(t *testing.T, c *duplicate.Checker) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, c.Wait(ctx))
}

func TestChecker_Debounce(t *testing.T) {
	t.Run("only the settled value is looked up", func(t *testing.T) {
		c, f, lookup := setupChecker(t, taken("EMP01"), time.Second)

		change(c, f, "EM")
		change(c, f, "EMP")
		change(c, f, "EMP0")
		change(c, f, "EMP01")
		assert.True(t, c.State().Pending)

		wait(t, c)
		assert.Equal(t, []string{"EMP01"}, lookup.Calls())
		assert.True(t, c.IsDuplicate())
		assert.True(t, f.Errors().Has(form.RuleDuplicate))
		f.Touch()
		assert.Equal(t, "Employee code already exists", f.Message())
	})

	t.Run("unchanged fired value is not looked up again", func(t *testing.T) {
		c, f, lookup := setupChecker(t, taken(), time.Second)

		change(c, f, "HR")
		wait(t, c)
		change(c, f, "HRX")
		change(c, f, "HR")
		wait(t, c)

		assert.Equal(t, []string{"HR"}, lookup.Calls())
	})

	t.Run("short values never reach the lookup", func(t *testing.T) {
		c, f, lookup := setupChecker(t, taken("EMP01"), time.Second)

		change(c, f, "EMP01")
		wait(t, c)
		require.True(t, c.IsDuplicate())

		change(c, f, "E")
		assert.False(t, c.IsDuplicate())
		assert.False(t, c.Checking())
		assert.False(t, f.Errors().Has(form.RuleDuplicate))

		time.Sleep(3 * testDebounce)
		assert.Equal(t, []string{"EMP01"}, lookup.Calls())
	})

	t.Run("flush fires immediately", func(t *testing.T) {
		c, f, lookup := setupChecker(t, taken(), time.Second)

		change(c, f, "IT")
		c.Flush()
		assert.False(t, c.State().Pending)

		wait(t, c)
		assert.Equal(t, []string{"IT"}, lookup.Calls())
	})
}

// slowLookup ignores cancellation so stale results really arrive late.
func slowLookup() (map[string]chan bool, func(context.Context, string) (bool, error)) {
	release := map[string]chan bool{
		"EMP01": make(chan bool, 1),
		"EMP02": make(chan bool, 1),
	}
	return release, func(_ context.Context, value string) (bool, error) {
		return <-release[value], nil
	}
}

func TestChecker_LatestWins(t *testing.T) {
	t.Run("older result resolving last is discarded", func(t *testing.T) {
		release, slow := slowLookup()
		c, f, lookup := setupChecker(t, slow, time.Second)

		change(c, f, "EMP01")
		c.Flush()
		change(c, f, "EMP02")
		c.Flush()
		assert.Eventually(t, func() bool { return len(lookup.Calls()) == 2 }, waitFor, tick)

		release["EMP02"] <- false
		wait(t, c)
		release["EMP01"] <- true
		time.Sleep(2 * testDebounce)

		assert.False(t, c.IsDuplicate())
		assert.False(t, f.Errors().Has(form.RuleDuplicate))
	})

	t.Run("older result resolving first is discarded", func(t *testing.T) {
		release, slow := slowLookup()
		c, f, lookup := setupChecker(t, slow, time.Second)

		change(c, f, "EMP01")
		c.Flush()
		change(c, f, "EMP02")
		c.Flush()
		assert.Eventually(t, func() bool { return len(lookup.Calls()) == 2 }, waitFor, tick)

		release["EMP01"] <- false
		time.Sleep(2 * testDebounce)
		assert.True(t, c.Checking())

		release["EMP02"] <- true
		wait(t, c)
		assert.True(t, c.IsDuplicate())
		assert.True(t, f.Errors().Has(form.RuleDuplicate))
	})
}

func TestChecker_FailOpen(t *testing.T) {
	t.Run("lookup error", func(t *testing.T) {
		c, f, _ := setupChecker(t, func(context.Context, string) (bool, error) {
			return true, errors.New("connection refused")
		}, time.Second)

		change(c, f, "EMP01")
		wait(t, c)

		st := c.State()
		assert.False(t, st.Duplicate)
		assert.False(t, st.Checking)
		assert.True(t, f.Valid())
	})

	t.Run("timeout clears checking", func(t *testing.T) {
		timeout := 40 * time.Millisecond
		c, f, _ := setupChecker(t, func(ctx context.Context, _ string) (bool, error) {
			<-ctx.Done()
			return false, ctx.Err()
		}, timeout)

		start := time.Now()
		change(c, f, "AB")
		assert.Eventually(t, c.Checking, waitFor, tick)

		wait(t, c)
		assert.Less(t, time.Since(start), testDebounce+timeout+testDebounce+100*time.Millisecond)
		assert.False(t, c.IsDuplicate())
		assert.False(t, c.Checking())
		assert.True(t, f.Valid())
	})
}

func TestChecker_SelfExclusion(t *testing.T) {
	c, f, _ := setupChecker(t, taken("EMP01", "EMP02"), time.Second)
	c.Reset("EMP01", true)

	change(c, f, "EMP01")
	c.Flush()
	wait(t, c)
	assert.False(t, c.IsDuplicate())

	change(c, f, "EMP02")
	wait(t, c)
	assert.True(t, c.IsDuplicate())

	change(c, f, "EMP01")
	wait(t, c)
	assert.False(t, c.IsDuplicate())
	assert.True(t, f.Valid())
}

func TestChecker_ErrorIsolation(t *testing.T) {
	c, f, _ := setupChecker(t, taken("EMP 01"), time.Second)

	change(c, f, "EMP 01")
	wait(t, c)
	errs := f.Errors()
	assert.True(t, errs.Has(form.RulePattern))
	assert.True(t, errs.Has(form.RuleDuplicate))

	change(c, f, "EMP 02")
	wait(t, c)
	errs = f.Errors()
	assert.True(t, errs.Has(form.RulePattern))
	assert.False(t, errs.Has(form.RuleDuplicate))
}

func TestChecker_Reset(t *testing.T) {
	t.Run("cancels armed timer", func(t *testing.T) {
		c, f, lookup := setupChecker(t, taken("EMP01"), time.Second)

		change(c, f, "EMP01")
		c.Reset("", false)
		time.Sleep(3 * testDebounce)

		assert.Empty(t, lookup.Calls())
		assert.Equal(t, duplicate.State{}, c.State())
	})

	t.Run("discards in-flight result and clears flags", func(t *testing.T) {
		release := make(chan struct{})
		c, f, _ := setupChecker(t, func(context.Context, string) (bool, error) {
			<-release
			return true, nil
		}, time.Second)

		change(c, f, "EMP01")
		c.Flush()
		assert.Eventually(t, c.Checking, waitFor, tick)

		c.Reset("EMP09", true)
		close(release)
		time.Sleep(2 * testDebounce)

		assert.Equal(t, duplicate.State{}, c.State())
		assert.False(t, f.Errors().Has(form.RuleDuplicate))
	})

	t.Run("stop ignores later changes", func(t *testing.T) {
		c, f, lookup := setupChecker(t, taken(), time.Second)
		c.Stop()

		change(c, f, "EMP01")
		time.Sleep(3 * testDebounce)
		assert.Empty(t, lookup.Calls())
		assert.False(t, c.Busy())
	})
}

func TestChecker_Wait(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	c, f, _ := setupChecker(t, func(context.Context, string) (bool, error) {
		<-release
		return false, nil
	}, time.Second)

	change(c, f, "EMP01")
	assert.True(t, c.Busy())

	ctx, cancel := context.WithTimeout(context.Background(), 3*testDebounce)
	defer cancel()
	assert.ErrorIs(t, c.Wait(ctx), context.DeadlineExceeded)
}
