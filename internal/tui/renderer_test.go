package tui

import (
	"errors"
	"testing"
	"time"

	"github.com/anicrunch/anicrunch/internal/domain"
	"github.com/anicrunch/anicrunch/internal/view"
)

func TestRendererKeepsOrder(t *testing.T) {
	r := NewRenderer()
	defer r.Close()

	r.StateChanged(view.ViewState{Mode: view.ModeSearch, Query: "mob"})
	r.Loading(view.SectionResults, 12)
	r.Cards(view.SectionResults, []domain.Anime{{ID: 1}}, false)
	r.LoadMore(view.LoadMoreHidden, nil)

	wait := r.Wait()
	if _, ok := wait().(StateChangedMsg); !ok {
		t.Fatal("first event is not StateChangedMsg")
	}
	if msg, ok := wait().(SectionLoadingMsg); !ok || msg.Count != 12 {
		t.Fatalf("second event = %#v, want loading 12", msg)
	}
	if msg, ok := wait().(CardsMsg); !ok || len(msg.Items) != 1 {
		t.Fatalf("third event = %#v, want one card", msg)
	}
	if _, ok := wait().(LoadMoreMsg); !ok {
		t.Fatal("fourth event is not LoadMoreMsg")
	}
}

func TestRendererNeverBlocks(t *testing.T) {
	r := NewRenderer()
	defer r.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			r.Hero(view.HeroSlide{Index: i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("renderer blocked without a reader")
	}

	wait := r.Wait()
	for i := 0; i < 10000; i++ {
		msg, ok := wait().(HeroMsg)
		if !ok || msg.Slide.Index != i {
			t.Fatalf("event %d = %#v", i, msg)
		}
	}
}

func TestRendererCopiesCards(t *testing.T) {
	r := NewRenderer()
	defer r.Close()

	items := []domain.Anime{{ID: 1}}
	r.Cards(view.SectionSeasonal, items, false)
	items[0].ID = 2

	msg := r.Wait()().(CardsMsg)
	if msg.Items[0].ID != 1 {
		t.Errorf("ID = %d, want 1", msg.Items[0].ID)
	}
}

func TestRendererWaitWakesOnPush(t *testing.T) {
	r := NewRenderer()
	defer r.Close()

	got := make(chan any, 1)
	go func() { got <- r.Wait()() }()

	time.Sleep(10 * time.Millisecond)
	r.Failed(view.SectionTop, errors.New("boom"))

	select {
	case msg := <-got:
		if f, ok := msg.(SectionFailedMsg); !ok || f.Section != view.SectionTop {
			t.Errorf("msg = %#v, want failure for top", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not wake")
	}
}

func TestRendererCloseReleasesWait(t *testing.T) {
	r := NewRenderer()

	got := make(chan any, 1)
	go func() { got <- r.Wait()() }()
	r.Close()
	r.Close()

	select {
	case msg := <-got:
		if msg != nil {
			t.Errorf("msg = %#v, want nil", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not release Wait")
	}
}
