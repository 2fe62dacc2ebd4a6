package present

import (
	"testing"

	"github.com/ccowmu/minutes/internal/highlight"
	"github.com/ccowmu/minutes/internal/store"
)

func TestTextNode_HighlightAndRestore(t *testing.T) {
	n := NewTextNode("Kernel Scheduling")
	if n.Highlighted() {
		t.Fatal("new node should not be highlighted")
	}

	n.Restore() // never highlighted: no change
	if n.Text() != "Kernel Scheduling" {
		t.Fatalf("Restore() changed untouched text: %q", n.Text())
	}

	n.Highlight(highlight.New([]string{"sched"}), bracket)
	if n.Text() != "Kernel [Sched]uling" {
		t.Errorf("Text() = %q", n.Text())
	}
	if n.Pristine() != "Kernel Scheduling" {
		t.Errorf("Pristine() = %q", n.Pristine())
	}

	n.Highlight(highlight.New([]string{"kernel"}), bracket)
	if n.Text() != "[Kernel] Scheduling" {
		t.Errorf("second highlight = %q", n.Text())
	}

	n.Restore()
	if n.Text() != "Kernel Scheduling" || n.Highlighted() {
		t.Errorf("Restore() = %q", n.Text())
	}
}

func TestTextNode_NilHighlighterRestores(t *testing.T) {
	n := NewTextNode("abc")
	n.Highlight(highlight.New([]string{"ab"}), bracket)
	n.Highlight(nil, bracket)
	if n.Text() != "abc" {
		t.Errorf("Text() = %q, want abc", n.Text())
	}
}

func TestSelect_Next(t *testing.T) {
	s := &Select{}
	s.SetOptions([]store.YearCount{{Year: "2024", Count: 2}, {Year: "2023", Count: 1}})
	s.SetValue("all")

	for _, want := range []string{"2024", "2023", "all", "2024"} {
		if got := s.Next(); got != want {
			t.Fatalf("Next() = %q, want %q", got, want)
		}
	}

	s.SetValue("1999")
	if got := s.Next(); got != "all" {
		t.Errorf("Next() from unknown value = %q, want all", got)
	}
}

func TestNilElements(t *testing.T) {
	var (
		node      *TextNode
		region    *Region
		counter   *Counter
		input     *Input
		sel       *Select
		toggle    *ViewToggle
		container *Container
		page      *Page
	)

	node.Highlight(highlight.New([]string{"ab"}), bracket)
	node.Restore()
	region.Show()
	region.Hide()
	counter.Set(3)
	input.SetValue("x")
	input.Focus()
	input.Blur()
	sel.SetOptions(nil)
	sel.SetValue("2024")
	toggle.SetActive("list")
	container.Show()
	container.Hide()
	container.SetLayout("list")

	if node.Text() != "" || region.Visible() || counter.Value() != 0 || input.Value() != "" ||
		input.Focused() || sel.Value() != "" || sel.Next() != "" || toggle.Active() != "" ||
		container.Visible() || container.Layout() != "" || page.VisibleCards() != nil {
		t.Error("nil elements should report zero values")
	}
}
