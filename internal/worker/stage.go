package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"titledoctor/features/job"
	"titledoctor/internal/middleware"
)

// Identity is the minimum needed to attribute an event to a user. Without
// it a failure degrades to log-only: there is nobody to notify.
type Identity struct {
	JobID         string
	Email         string
	CorrelationID string
}

// Stage describes the fixed frame around one pipeline step: the status
// labels it moves through, the topics it emits, and the generic user-safe
// message used when its collaborator faults.
type Stage struct {
	Name         string
	Running      job.Status
	Done         job.Status
	SuccessTopic string
	ErrorTopic   string
	Fallback     string
}

// runFunc performs the stage's single collaborator call. It returns the
// fields to merge onto the snapshot and the success event to publish.
// A *Fault error is a business failure whose message may reach the user;
// any other error is sanitized to the stage's Fallback.
type runFunc func(ctx context.Context, snap job.Job) (job.Patch, any, error)

// Runner executes every stage through the same sequence: recover identity,
// persist the in-flight status, run the collaborator under a deadline,
// then persist-and-emit either success or failure.
type Runner struct {
	store   job.Store
	pub     Publisher
	timeout time.Duration
}

func NewRunner(store job.Store, pub Publisher, timeout time.Duration) *Runner {
	return &Runner{store: store, pub: pub, timeout: timeout}
}

func (r *Runner) Execute(ctx context.Context, st Stage, id Identity, run runFunc) error {
	if id.CorrelationID != "" {
		ctx = middleware.WithCorrelationID(ctx, id.CorrelationID)
	}

	if id.JobID == "" || id.Email == "" {
		slog.ErrorContext(ctx, "cannot run stage, job identity missing", "stage", st.Name)
		return nil
	}

	snap, err := r.store.Get(ctx, id.JobID)
	if err != nil {
		slog.ErrorContext(ctx, "job load failed", "stage", st.Name, "job_id", id.JobID, "error", err)
		return err
	}
	if snap.Status.Terminal() {
		slog.WarnContext(ctx, "dropping event for terminal job", "stage", st.Name, "job_id", id.JobID, "status", snap.Status)
		return nil
	}

	// First touch may land before the submit write does.
	if snap.ID == "" {
		snap.ID = id.JobID
	}
	if snap.Email == "" {
		snap.Email = id.Email
	}

	snap = snap.Apply(job.Patch{Status: st.Running})
	if err := r.store.Set(ctx, id.JobID, snap); err != nil {
		slog.ErrorContext(ctx, "status persist failed", "stage", st.Name, "job_id", id.JobID, "error", err)
		return err
	}

	slog.InfoContext(ctx, "stage running", "stage", st.Name, "job_id", id.JobID)

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	patch, event, err := run(callCtx, snap)
	if err != nil {
		return r.fail(ctx, st, id, snap, err)
	}

	patch.Status = st.Done
	snap = snap.Apply(patch)
	if err := r.store.Set(ctx, id.JobID, snap); err != nil {
		slog.ErrorContext(ctx, "result persist failed", "stage", st.Name, "job_id", id.JobID, "error", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return r.fail(ctx, st, id, snap, err)
	}
	if err := r.pub.Publish(st.SuccessTopic, body); err != nil {
		slog.ErrorContext(ctx, "publish failed", "stage", st.Name, "topic", st.SuccessTopic, "job_id", id.JobID, "error", err)
		return err
	}

	slog.InfoContext(ctx, "stage completed", "stage", st.Name, "job_id", id.JobID, "status", st.Done)
	return nil
}

// fail records the technical cause in the store and routes a sanitized
// message to the stage's error topic. Only a *Fault's message is allowed
// through to the user.
func (r *Runner) fail(ctx context.Context, st Stage, id Identity, snap job.Job, cause error) error {
	userMsg := st.Fallback
	var f *Fault
	if errors.As(cause, &f) {
		userMsg = f.Message
	}

	slog.ErrorContext(ctx, "stage failed", "stage", st.Name, "job_id", id.JobID, "error", cause)

	snap = snap.Apply(job.Patch{Status: job.StatusFailed, Error: cause.Error()})
	if err := r.store.Set(ctx, id.JobID, snap); err != nil {
		// Still emit: notifying the user matters more than the audit trail.
		slog.ErrorContext(ctx, "failed-status persist failed", "stage", st.Name, "job_id", id.JobID, "error", err)
	}

	body, err := json.Marshal(StageFailed{
		JobID:         id.JobID,
		Email:         id.Email,
		Error:         userMsg,
		CorrelationID: id.CorrelationID,
	})
	if err != nil {
		slog.ErrorContext(ctx, "encode error event failed", "stage", st.Name, "error", err)
		return err
	}
	if err := r.pub.Publish(st.ErrorTopic, body); err != nil {
		slog.ErrorContext(ctx, "publish failed", "stage", st.Name, "topic", st.ErrorTopic, "job_id", id.JobID, "error", err)
		return err
	}
	return nil
}
