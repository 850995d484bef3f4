package playlist

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/desertthunder/lightness/internal/models"
	"github.com/desertthunder/lightness/internal/services"
	"github.com/desertthunder/lightness/internal/shared"
	tu "github.com/desertthunder/lightness/internal/testing"
	"github.com/desertthunder/lightness/internal/testing/mockclient"
)

// tick runs one pass and keeps only the change set.
func tick(ctx context.Context, r *Reconciler) Change {
	change, _ := r.Tick(ctx)
	return change
}

func TestReconciler(t *testing.T) {
	ctx := context.Background()

	t.Run("Initial State", func(t *testing.T) {
		r := NewReconciler(mockclient.New(), nil)
		s := r.Snapshot()

		if !s.Loading {
			t.Error("expected loading to start true")
		}
		if s.Current != nil {
			t.Error("expected no current video")
		}
		if s.Videos == nil || len(s.Videos) != 0 {
			t.Errorf("expected empty videos, got %v", s.Videos)
		}
		if v := r.Videos(); v == nil || len(v) != 0 {
			t.Errorf("expected Videos() to return an empty non-nil slice, got %#v", v)
		}
	})

	t.Run("Tick Reports Why A Pass Was Dropped", func(t *testing.T) {
		down := errors.New("connection refused")
		malformed := mockclient.Result{Response: &services.QueueResponse{
			Success: true,
			Queue:   []json.RawMessage{json.RawMessage(`{"playlist_video_id": "nope"}`)},
		}}
		client := mockclient.New(
			mockclient.QueueOf(t, tu.Video(1, models.StatusPlaying)),
			mockclient.Failed(down),
			mockclient.Unsuccessful(),
			malformed,
		)
		r := NewReconciler(client, nil)

		if _, err := r.Tick(ctx); err != nil {
			t.Fatalf("expected first pass to succeed, got %v", err)
		}
		if _, err := r.Tick(ctx); !errors.Is(err, down) {
			t.Errorf("expected fetch error, got %v", err)
		}
		if _, err := r.Tick(ctx); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest for success=false, got %v", err)
		}
		if _, err := r.Tick(ctx); err == nil {
			t.Error("expected malformed queue to be reported")
		}

		if cur := r.Current(); cur == nil || cur.ID != 1 {
			t.Errorf("expected failed passes to keep the current video, got %v", cur)
		}
	})

	t.Run("Loading Transition", func(t *testing.T) {
		tc := []struct {
			name  string
			first mockclient.Result
		}{
			{name: "success", first: mockclient.QueueOf(t, tu.Video(1, models.StatusPlaying))},
			{name: "unsuccessful payload", first: mockclient.Unsuccessful()},
			{name: "fetch error", first: mockclient.Failed(errors.New("connection refused"))},
			{name: "nil response", first: mockclient.Result{}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				client := mockclient.New(tt.first, mockclient.Failed(errors.New("down")), mockclient.QueueOf(t))
				r := NewReconciler(client, nil)

				change := tick(ctx, r)
				if !change.Has(ChangedLoading) {
					t.Errorf("expected first tick to report loading change, got %v", change)
				}
				if r.Loading() {
					t.Fatal("expected loading to be false after first tick")
				}

				for range 2 {
					if tick(ctx, r).Has(ChangedLoading) {
						t.Error("loading must only change once")
					}
					if r.Loading() {
						t.Error("loading must never revert to true")
					}
				}
			})
		}
	})

	t.Run("Current Video Change Detection", func(t *testing.T) {
		t.Run("Different ID Replaces Current", func(t *testing.T) {
			client := mockclient.New(
				mockclient.QueueOf(t, tu.Video(1, models.StatusPlaying)),
				mockclient.QueueOf(t, tu.Video(2, models.StatusPlaying)),
			)
			r := NewReconciler(client, nil)
			tick(ctx, r)

			change := tick(ctx, r)
			if !change.Has(ChangedCurrent) {
				t.Errorf("expected current change, got %v", change)
			}
			if r.Current() == nil || r.Current().ID != 2 {
				t.Errorf("expected current video 2, got %v", r.Current())
			}
		})

		t.Run("No Playing Item Clears Current", func(t *testing.T) {
			client := mockclient.New(
				mockclient.QueueOf(t, tu.Video(1, models.StatusPlaying)),
				mockclient.QueueOf(t, tu.Video(1, models.StatusDone), tu.Video(2, models.StatusQueued)),
			)
			r := NewReconciler(client, nil)
			tick(ctx, r)

			change := tick(ctx, r)
			if !change.Has(ChangedCurrent) {
				t.Errorf("expected current change, got %v", change)
			}
			if r.Current() != nil {
				t.Errorf("expected no current video, got %v", r.Current())
			}
		})

		t.Run("New Playing Item Sets Current", func(t *testing.T) {
			client := mockclient.New(
				mockclient.QueueOf(t, tu.Video(3, models.StatusQueued)),
				mockclient.QueueOf(t, tu.Video(3, models.StatusPlaying)),
			)
			r := NewReconciler(client, nil)

			if tick(ctx, r).Has(ChangedCurrent) {
				t.Error("expected no current change without a playing item")
			}
			if !tick(ctx, r).Has(ChangedCurrent) {
				t.Error("expected current change once an item plays")
			}
			if r.Current() == nil || r.Current().ID != 3 {
				t.Errorf("expected current video 3, got %v", r.Current())
			}
		})

		t.Run("Same ID Keeps The Same Pointer", func(t *testing.T) {
			playing := tu.Video(1, models.StatusPlaying)
			renamed := playing
			renamed.Title = "renamed upstream"

			client := mockclient.New(
				mockclient.QueueOf(t, playing),
				mockclient.QueueOf(t, renamed, tu.Video(2, models.StatusQueued)),
			)
			r := NewReconciler(client, nil)
			tick(ctx, r)
			before := r.Current()

			change := tick(ctx, r)
			if change.Has(ChangedCurrent) {
				t.Errorf("expected no current change, got %v", change)
			}
			if r.Current() != before {
				t.Error("expected current pointer to be untouched")
			}
			if !change.Has(ChangedVideos) {
				t.Error("expected videos change for the new queue")
			}
		})

		t.Run("Both Absent Is No Change", func(t *testing.T) {
			client := mockclient.New(
				mockclient.QueueOf(t, tu.Video(1, models.StatusQueued)),
				mockclient.QueueOf(t, tu.Video(2, models.StatusQueued)),
			)
			r := NewReconciler(client, nil)
			tick(ctx, r)

			if tick(ctx, r).Has(ChangedCurrent) {
				t.Error("expected no current change")
			}
		})
	})

	t.Run("Videos Commit", func(t *testing.T) {
		t.Run("Identical Queue Is No Change", func(t *testing.T) {
			q := mockclient.QueueOf(t, tu.Video(1, models.StatusPlaying), tu.Video(2, models.StatusQueued))
			r := NewReconciler(mockclient.New(q, q), nil)

			if !tick(ctx, r).Has(ChangedVideos) {
				t.Error("expected first queue to be committed")
			}
			if change := tick(ctx, r); change != NoChange {
				t.Errorf("expected no change for identical queue, got %v", change)
			}
		})

		t.Run("Empty Queue From Server Clears Videos", func(t *testing.T) {
			client := mockclient.New(
				mockclient.QueueOf(t, tu.Video(1, models.StatusQueued)),
				mockclient.QueueOf(t),
			)
			r := NewReconciler(client, nil)
			tick(ctx, r)

			if !tick(ctx, r).Has(ChangedVideos) {
				t.Error("expected videos change")
			}
			if len(r.Videos()) != 0 {
				t.Errorf("expected empty videos, got %v", r.Videos())
			}
		})
	})

	t.Run("Failure Tolerance", func(t *testing.T) {
		failures := []struct {
			name   string
			result mockclient.Result
		}{
			{name: "unsuccessful payload", result: mockclient.Unsuccessful()},
			{name: "fetch error", result: mockclient.Failed(errors.New("timeout"))},
			{name: "malformed record", result: mockclient.Result{Response: &services.QueueResponse{
				Success: true,
				Queue:   []json.RawMessage{json.RawMessage(`{"title": "no id"}`)},
			}}},
		}

		for _, tt := range failures {
			t.Run(tt.name, func(t *testing.T) {
				client := mockclient.New(
					mockclient.QueueOf(t, tu.Video(1, models.StatusPlaying), tu.Video(2, models.StatusQueued)),
					tt.result,
				)
				r := NewReconciler(client, nil)
				tick(ctx, r)
				before := r.Snapshot()

				if change := tick(ctx, r); change != NoChange {
					t.Errorf("expected no change on failure, got %v", change)
				}

				after := r.Snapshot()
				if after.Current != before.Current {
					t.Error("expected current video to be retained")
				}
				if !models.EqualVideos(after.Videos, before.Videos) {
					t.Errorf("expected videos to be retained, got %v", after.Videos)
				}
			})
		}
	})

	t.Run("Partition", func(t *testing.T) {
		client := mockclient.New(mockclient.QueueOf(t,
			tu.Video(5, models.StatusQueued),
			tu.Video(6, models.StatusPlaying),
			tu.Video(7, models.StatusUnknown),
			tu.Video(8, models.StatusQueued),
		))
		r := NewReconciler(client, nil)
		tick(ctx, r)

		current := r.CurrentVideo()
		if current == nil || current.ID != 6 {
			t.Fatalf("expected current video 6, got %v", current)
		}

		queued := r.QueuedVideos()
		want := []int64{5, 7, 8}
		if len(queued) != len(want) {
			t.Fatalf("expected %d queued videos, got %d", len(want), len(queued))
		}
		for i, id := range want {
			if queued[i].ID != id {
				t.Errorf("position %d: expected id %d, got %d", i, id, queued[i].ID)
			}
		}

		if len(queued)+1 != len(r.Videos()) {
			t.Error("current and queued should cover every video")
		}
	})

	t.Run("Partition Without Playing Item", func(t *testing.T) {
		client := mockclient.New(mockclient.QueueOf(t, tu.Video(1, models.StatusQueued), tu.Video(2, models.StatusQueued)))
		r := NewReconciler(client, nil)
		tick(ctx, r)

		if r.CurrentVideo() != nil {
			t.Error("expected no current video")
		}
		if len(r.QueuedVideos()) != 2 {
			t.Errorf("expected every video to be queued, got %v", r.QueuedVideos())
		}
	})

	t.Run("Commands", func(t *testing.T) {
		t.Run("NextVideo Delegates Current ID Once", func(t *testing.T) {
			client := mockclient.New(mockclient.QueueOf(t, tu.Video(11, models.StatusPlaying), tu.Video(12, models.StatusQueued)))
			r := NewReconciler(client, nil)
			tick(ctx, r)
			before := r.Snapshot()

			if err := r.NextVideo(ctx); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			calls := client.NextCalls()
			if len(calls) != 1 || calls[0] != 11 {
				t.Errorf("expected one next call with id 11, got %v", calls)
			}

			after := r.Snapshot()
			if after.Current != before.Current || !models.EqualVideos(after.Videos, before.Videos) {
				t.Error("NextVideo must not mutate local state")
			}
		})

		t.Run("NextVideo Without Current Does Nothing", func(t *testing.T) {
			client := mockclient.New(mockclient.QueueOf(t, tu.Video(1, models.StatusQueued)))
			r := NewReconciler(client, nil)
			tick(ctx, r)

			if err := r.NextVideo(ctx); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(client.NextCalls()) != 0 {
				t.Errorf("expected no next calls, got %v", client.NextCalls())
			}
		})

		t.Run("ClearQueue Delegates", func(t *testing.T) {
			client := mockclient.New(mockclient.QueueOf(t))
			r := NewReconciler(client, nil)

			if err := r.ClearQueue(ctx); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.Clears() != 1 {
				t.Errorf("expected one clear, got %d", client.Clears())
			}
			if !r.Loading() {
				t.Error("ClearQueue must not mutate local state")
			}
		})

		t.Run("RemoveVideo Delegates", func(t *testing.T) {
			client := mockclient.New(mockclient.QueueOf(t, tu.Video(1, models.StatusPlaying), tu.Video(2, models.StatusQueued)))
			r := NewReconciler(client, nil)
			tick(ctx, r)

			if err := r.RemoveVideo(ctx, r.QueuedVideos()[0]); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if removed := client.Removed(); len(removed) != 1 || removed[0] != 2 {
				t.Errorf("expected video 2 removed, got %v", removed)
			}
			if len(r.Videos()) != 2 {
				t.Error("RemoveVideo must not mutate local state")
			}
		})

		t.Run("Command Errors Are Returned", func(t *testing.T) {
			client := mockclient.New(mockclient.QueueOf(t))
			client.FailCommands(errors.New("backend down"))
			r := NewReconciler(client, nil)

			if err := r.ClearQueue(ctx); err == nil {
				t.Error("expected error to be returned")
			}
		})
	})

	t.Run("Label Precedence", func(t *testing.T) {
		current := tu.Video(1, models.StatusPlaying)
		tc := []struct {
			name  string
			state State
			want  string
		}{
			{name: "loading without current", state: State{Loading: true}, want: LoadingLabel},
			{name: "loaded without current", state: State{Loading: false}, want: NothingLabel},
			{name: "current while loading", state: State{Loading: true, Current: &current}, want: "video 1"},
			{name: "current after loading", state: State{Loading: false, Current: &current}, want: "video 1"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if got := Label(tt.state); got != tt.want {
					t.Errorf("Label() = %q, want %q", got, tt.want)
				}
			})
		}

		t.Run("Reconciler Label Follows State", func(t *testing.T) {
			client := mockclient.New(mockclient.QueueOf(t, current), mockclient.QueueOf(t))
			r := NewReconciler(client, nil)

			if r.CurrentlyPlayingLabel() != LoadingLabel {
				t.Errorf("expected loading label, got %q", r.CurrentlyPlayingLabel())
			}
			tick(ctx, r)
			if r.CurrentlyPlayingLabel() != "video 1" {
				t.Errorf("expected title label, got %q", r.CurrentlyPlayingLabel())
			}
			tick(ctx, r)
			if r.CurrentlyPlayingLabel() != NothingLabel {
				t.Errorf("expected nothing label, got %q", r.CurrentlyPlayingLabel())
			}
		})
	})
}

func TestChange(t *testing.T) {
	c := ChangedLoading | ChangedVideos
	if !c.Has(ChangedVideos) || c.Has(ChangedCurrent) {
		t.Errorf("unexpected Has results for %v", c)
	}
	if c.String() != "loading|videos" {
		t.Errorf("unexpected string %q", c.String())
	}
	if NoChange.String() != "none" {
		t.Errorf("unexpected string %q", NoChange.String())
	}
	if NoChange.Has(NoChange) {
		t.Error("NoChange should not report having NoChange")
	}
}
