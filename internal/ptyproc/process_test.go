package ptyproc

import (
	"syscall"
	"testing"
	"time"
)

// Grounded on the teacher's internal/process/controller_test.go, which
// spawns real commands rather than mocking the PTY (TestStopProcessRunsOnKill,
// TestStopProcessOnKillFailurePropagates). These tests exercise the two
// branches session_test.go's force=true-only Close coverage never reaches:
// the graceful SIGHUP-then-grace-then-SIGKILL escalation in Exit(false), and
// the StatusSignaled branch of reap().

func TestSpawnEmptyArgv(t *testing.T) {
	if _, err := Spawn(nil, Options{}); err == nil {
		t.Fatal("Spawn(nil, ...): want error, got nil")
	}
}

func TestExitForceSendsSIGKILL(t *testing.T) {
	proc, err := Spawn([]string{"cat"}, Options{})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	if err := proc.Exit(true); err != nil {
		t.Fatalf("Exit(true): %v", err)
	}
	if proc.IsAlive() {
		t.Error("expected process to be reaped after Exit(true)")
	}

	status, _, sig := proc.ProcessStatus()
	if status != StatusSignaled {
		t.Errorf("ProcessStatus() = %v, want StatusSignaled", status)
	}
	if sig != syscall.SIGKILL {
		t.Errorf("exit signal = %v, want SIGKILL", sig)
	}
}

// sh ignoring SIGHUP forces Exit(false) to wait out killGrace and escalate
// to SIGKILL — the branch at process.go's select{} inside Exit.
func TestExitGracefulEscalatesToSIGKILLWhenSIGHUPIsIgnored(t *testing.T) {
	if killGrace > 3*time.Second {
		t.Skip("killGrace too long for a unit test budget")
	}

	proc, err := Spawn([]string{"sh", "-c", "trap '' HUP; sleep 30"}, Options{})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	start := time.Now()
	if err := proc.Exit(false); err != nil {
		t.Fatalf("Exit(false): %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < killGrace {
		t.Errorf("Exit(false) returned after %s, want >= killGrace (%s) since SIGHUP was trapped", elapsed, killGrace)
	}
	if proc.IsAlive() {
		t.Error("expected process to be reaped after Exit(false) escalation")
	}

	status, _, sig := proc.ProcessStatus()
	if status != StatusSignaled {
		t.Errorf("ProcessStatus() = %v, want StatusSignaled", status)
	}
	if sig != syscall.SIGKILL {
		t.Errorf("exit signal = %v, want SIGKILL (escalated)", sig)
	}
}

func TestExitGracefulReturnsPromptlyWhenChildExitsOnSIGHUP(t *testing.T) {
	proc, err := Spawn([]string{"cat"}, Options{})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	start := time.Now()
	if err := proc.Exit(false); err != nil {
		t.Fatalf("Exit(false): %v", err)
	}
	if elapsed := time.Since(start); elapsed >= killGrace {
		t.Errorf("Exit(false) took %s, want well under killGrace (%s) since cat has no SIGHUP handler", elapsed, killGrace)
	}

	status, _, sig := proc.ProcessStatus()
	if status != StatusSignaled {
		t.Errorf("ProcessStatus() = %v, want StatusSignaled", status)
	}
	if sig != syscall.SIGHUP {
		t.Errorf("exit signal = %v, want SIGHUP", sig)
	}
}

func TestSignalAfterExitIsNoop(t *testing.T) {
	proc, err := Spawn([]string{"cat"}, Options{})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if err := proc.Exit(true); err != nil {
		t.Fatalf("Exit(true): %v", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		t.Errorf("Signal after exit: %v, want nil (process already gone)", err)
	}
}
