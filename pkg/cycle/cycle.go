// Copyright (C) 2024-2025, Taostack. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cycle implements the stake -> hold -> unstake state machine. A
// run executes one cycle, or repeats forever in continuous mode. Execution
// is single-threaded and blocking; the only cancellation is the
// process-level context, and interrupting mid-hold is always safe because
// "still staked" is a valid, recoverable state.
package cycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/taostack/stakecycle/pkg/chain"
	"github.com/taostack/stakecycle/pkg/config"
	"github.com/taostack/stakecycle/pkg/constants"
	"github.com/taostack/stakecycle/pkg/tao"
	"github.com/taostack/stakecycle/pkg/ux"
)

type Runner struct {
	client chain.Client
	cfg    config.RunConfig
	log    *zap.SugaredLogger
	ux     *ux.UserLog

	// test seams
	out   io.Writer
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// Result describes one completed (or failed) cycle. It lives for the
// duration of the cycle and is never persisted.
type Result struct {
	Cycle        uint64
	StartHeight  uint64
	TargetHeight uint64
	EndHeight    uint64
	Staked       tao.Amount
	Unstaked     tao.Amount
	Err          error
}

func New(client chain.Client, cfg config.RunConfig, log *zap.SugaredLogger, userLog *ux.UserLog) *Runner {
	return &Runner{
		client: client,
		cfg:    cfg,
		log:    log,
		ux:     userLog,
		out:    os.Stdout,
		sleep:  sleepCtx,
		now:    time.Now,
	}
}

// Run executes cycles until the run completes, a fatal error occurs, or
// the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	for cycleNum := uint64(1); ; cycleNum++ {
		res := r.runCycle(ctx, cycleNum)

		switch {
		case res.Err == nil:
			r.ux.GreenCheckmarkToUser("cycle %d complete: staked %s at block %s, unstaked %s at block %s",
				res.Cycle, res.Staked,
				ux.ConvertToStringWithThousandSeparator(res.StartHeight),
				res.Unstaked,
				ux.ConvertToStringWithThousandSeparator(res.EndHeight))
		case errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded):
			r.ux.PrintToUser("interrupted; any held position remains staked and can be removed manually")
			return res.Err
		case errors.Is(res.Err, chain.ErrConnection):
			r.ux.PrintError("cycle %d aborted: %v", res.Cycle, res.Err)
			return res.Err
		case errors.Is(res.Err, chain.ErrInsufficientBalance):
			// Looping would fail every cycle; stop instead of spinning.
			r.ux.PrintError("cycle %d aborted: %v", res.Cycle, res.Err)
			return res.Err
		default:
			r.ux.RedXToUser("cycle %d failed: %v", res.Cycle, res.Err)
		}

		if !r.cfg.Continuous {
			return res.Err
		}
		r.ux.PrintToUser("next cycle in %s", r.cfg.CycleDelay)
		if err := r.sleep(ctx, r.cfg.CycleDelay); err != nil {
			return err
		}
	}
}

func (r *Runner) runCycle(ctx context.Context, n uint64) Result {
	res := Result{Cycle: n}
	r.ux.PrintLineSeparator()
	r.ux.PrintToUser("Cycle %d | wallet %s/%s | validator %s | subnet %d | %s mode",
		n, r.cfg.WalletName, r.cfg.HotkeyName, shortAddr(r.cfg.Validator), r.cfg.Subnet, r.cfg.Mode)

	balance, err := r.client.Balance(ctx)
	if err != nil {
		res.Err = err
		return res
	}
	height, err := r.client.BlockHeight(ctx)
	if err != nil {
		res.Err = err
		return res
	}
	res.StartHeight = height
	r.ux.PrintToUser("balance %s | block %s", balance, ux.ConvertToStringWithThousandSeparator(height))

	required := r.cfg.Amount.WithBuffer(r.cfg.FeeBufferPct)
	if balance < required {
		res.Err = fmt.Errorf("%w: have %s, need %s (stake %s plus %d%% fee buffer)",
			chain.ErrInsufficientBalance, balance, required, r.cfg.Amount, r.cfg.FeeBufferPct)
		return res
	}

	r.ux.PrintToUser("staking %s", r.cfg.Amount)
	if err := r.client.AddStake(ctx, r.cfg.Validator, r.cfg.Subnet, r.cfg.Amount); err != nil {
		res.Err = err
		return res
	}

	confirmed, err := r.awaitInclusion(ctx, height)
	if err != nil {
		res.Err = err
		return res
	}

	// The position the chain reports may differ from the requested amount
	// (subnet-specific units, slippage); everything below works with the
	// reported value.
	staked, err := r.client.Stake(ctx, r.cfg.Validator, r.cfg.Subnet)
	if err != nil {
		res.Err = err
		return res
	}
	res.Staked = staked
	r.ux.GreenCheckmarkToUser("stake confirmed at block %s: position %s",
		ux.ConvertToStringWithThousandSeparator(confirmed), staked)

	res.TargetHeight = confirmed + r.cfg.HoldBlocks()
	reached, err := r.waitForHeight(ctx, confirmed, res.TargetHeight)
	if err != nil {
		res.Err = err
		return res
	}
	res.EndHeight = reached

	position, err := r.client.Stake(ctx, r.cfg.Validator, r.cfg.Subnet)
	if err != nil {
		res.Err = err
		return res
	}
	if position.IsZero() {
		r.ux.PrintToUser("no stake left to remove")
		return res
	}
	r.ux.PrintToUser("unstaking %s", position)
	if err := r.client.RemoveStake(ctx, r.cfg.Validator, r.cfg.Subnet, position); err != nil {
		res.Err = err
		return res
	}
	res.Unstaked = position
	return res
}

// awaitInclusion polls until the height advances past the pre-stake
// height, which is when the submitted extrinsic can have landed.
func (r *Runner) awaitInclusion(ctx context.Context, pre uint64) (uint64, error) {
	for {
		if err := r.sleep(ctx, r.cfg.ConfirmInterval); err != nil {
			return 0, err
		}
		h, err := r.client.BlockHeight(ctx)
		if err != nil {
			return 0, err
		}
		if h > pre {
			return h, nil
		}
	}
}

// waitForHeight is the hold loop shared by both stake modes. It compares
// absolute heights, never iteration counts, so block production running
// fast, slow, or skipping heights cannot drift the target.
func (r *Runner) waitForHeight(ctx context.Context, start, target uint64) (uint64, error) {
	total := target - start
	r.ux.PrintToUser("holding %s block(s) until height %s",
		ux.ConvertToStringWithThousandSeparator(total),
		ux.ConvertToStringWithThousandSeparator(target))

	bar := progressbar.NewOptions64(int64(total),
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription("holding"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetPredictTime(true),
	)

	waitStart := r.now()
	lastReport := waitStart
	height := start
	for height < target {
		if err := r.sleep(ctx, r.cfg.PollInterval); err != nil {
			return height, err
		}
		h, err := r.client.BlockHeight(ctx)
		if err != nil {
			return height, err
		}
		if h > height {
			height = h
			r.log.Debugw("observed block", "height", height, "target", target)
			_ = bar.Set64(int64(min(height, target) - start))
		}
		if now := r.now(); height < target && now.Sub(lastReport) >= r.cfg.ProgressEvery {
			lastReport = now
			r.reportProgress(start, height, target, now.Sub(waitStart))
		}
	}
	_ = bar.Finish()
	_, _ = fmt.Fprintln(r.out)
	return height, nil
}

func (r *Runner) reportProgress(start, height, target uint64, elapsed time.Duration) {
	done := height - start
	total := target - start
	remaining := target - height
	eta := time.Duration(remaining) * constants.NominalBlockTime
	if done > 0 {
		eta = time.Duration(float64(elapsed) / float64(done) * float64(remaining))
	}
	r.ux.PrintToUser("progress: %d/%d blocks (%.1f%%) | elapsed %s | ~%s remaining",
		done, total, float64(done)/float64(total)*100,
		elapsed.Round(time.Second), eta.Round(time.Second))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func shortAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:10] + "..."
}
