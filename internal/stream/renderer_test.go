package stream

import (
	"encoding/json"
	"strings"
	"testing"

	"narrator-cli/internal/conversation"
)

func newTestRenderer() *Renderer {
	return NewRenderer(NewSurface(), DefaultOptions())
}

func TestRenderGroupsDifficultyObjects(t *testing.T) {
	r := newTestRenderer()
	r.Render([]conversation.Object{
		conversation.DifficultyAnalysis("Climbing the wall is hard."),
		conversation.DifficultyTarget("70"),
		conversation.DifficultyRoll(85),
	})
	blocks := r.Surface().Blocks()
	if len(blocks) != 1 {
		t.Fatalf("len(blocks) = %d, want 1", len(blocks))
	}
	g := blocks[0]
	if !g.IsGroup() {
		t.Fatalf("block kind = %q, want pre_scene", g.Kind)
	}
	for slot, want := range map[Slot]string{
		SlotDifficultyAnalysis: "Climbing the wall is hard.",
		SlotDifficultyTarget:   "70",
		SlotDifficultyRoll:     "85",
		SlotDifficultyBar:      "85",
	} {
		if got := g.Slot(slot); got != want {
			t.Fatalf("slot %s = %q, want %q", slot, got, want)
		}
	}
	if g.Hints.DifficultyColor.Tone != ToneSuccess {
		t.Fatalf("difficulty colour = %v, want success", g.Hints.DifficultyColor)
	}
	if !strings.Contains(g.Slot(SlotDifficultyOutcome), "exceeding the difficulty target of 70") {
		t.Fatalf("outcome = %q", g.Slot(SlotDifficultyOutcome))
	}
}

func TestRenderGroupAbsorbsRevealAndIsLastWriteWins(t *testing.T) {
	r := newTestRenderer()
	r.Render([]conversation.Object{
		conversation.DifficultyTarget("40"),
		conversation.RevealAnalysis("The fog thins."),
		conversation.RevealLevel("Strong"),
		conversation.RevealRoll(20),
		conversation.DifficultyTarget("60"),
	})
	blocks := r.Surface().Blocks()
	if len(blocks) != 1 {
		t.Fatalf("len(blocks) = %d, want 1", len(blocks))
	}
	g := blocks[0]
	if got := g.Slot(SlotDifficultyTarget); got != "60" {
		t.Fatalf("target = %q, want last write 60", got)
	}
	if g.Hints.RevealColor.Tone != ToneFailure {
		t.Fatalf("reveal colour = %v, want failure", g.Hints.RevealColor)
	}
	if g.Has(SlotDifficultyRoll) {
		t.Fatalf("roll slot should be unfilled")
	}
	if !g.Hints.DifficultyColor.IsZero() {
		t.Fatalf("difficulty colour should be unset before a roll, got %v", g.Hints.DifficultyColor)
	}
}

func TestRenderColourIndependentOfTargetRollOrder(t *testing.T) {
	a := newTestRenderer()
	a.Render([]conversation.Object{conversation.DifficultyTarget("50"), conversation.DifficultyRoll(20)})
	b := newTestRenderer()
	b.Render([]conversation.Object{conversation.DifficultyRoll(20), conversation.DifficultyTarget("50")})
	ga, gb := a.Surface().Blocks()[0], b.Surface().Blocks()[0]
	if ga.Hints != gb.Hints {
		t.Fatalf("hints differ by order: %+v vs %+v", ga.Hints, gb.Hints)
	}
	if ga.Slot(SlotDifficultyOutcome) != gb.Slot(SlotDifficultyOutcome) {
		t.Fatalf("outcome differs by order")
	}
}

func TestRenderGroupsServerShapedBatch(t *testing.T) {
	var batch conversation.Batch
	data := []byte(`[
		{"type":"difficulty_analysis","text":"Hard climb."},
		{"type":"difficulty_target","text":70},
		{"type":"difficulty_roll","integer":85}
	]`)
	if err := json.Unmarshal(data, &batch); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	r := newTestRenderer()
	r.Render(batch)
	blocks := r.Surface().Blocks()
	if len(blocks) != 1 {
		t.Fatalf("len(blocks) = %d, want 1", len(blocks))
	}
	if got := blocks[0].Slot(SlotDifficultyTarget); got != "70" {
		t.Fatalf("target = %q, want 70", got)
	}
	if got := blocks[0].Slot(SlotDifficultyRoll); got != "85" {
		t.Fatalf("roll = %q, want 85", got)
	}
}

func TestRenderFreestandingBreaksGroup(t *testing.T) {
	r := newTestRenderer()
	r.Render([]conversation.Object{
		conversation.DifficultyTarget("40"),
		conversation.Text(conversation.KindOOCMessage, "brb"),
		conversation.DifficultyRoll(10),
	})
	blocks := r.Surface().Blocks()
	if len(blocks) != 3 {
		t.Fatalf("len(blocks) = %d, want 3", len(blocks))
	}
	if !blocks[0].IsGroup() || !blocks[2].IsGroup() {
		t.Fatalf("expected two separate groups, got %q and %q", blocks[0].Kind, blocks[2].Kind)
	}
	if blocks[2].Has(SlotDifficultyTarget) {
		t.Fatalf("second group must not inherit the first group's target")
	}
	if blocks[2].Hints.DifficultyColor != PlaceholderColor {
		t.Fatalf("roll without target = %v, want placeholder", blocks[2].Hints.DifficultyColor)
	}
}

func TestRenderPlacementAfterUserMessage(t *testing.T) {
	r := newTestRenderer()
	r.Render([]conversation.Object{
		conversation.UserMessage("I open the door."),
		conversation.SceneDescription("The door creaks."),
		conversation.ConditionTable("| HP | 10 |"),
	})
	blocks := r.Surface().Blocks()
	if len(blocks) != 3 {
		t.Fatalf("len(blocks) = %d, want 3", len(blocks))
	}
	if blocks[0].Align != AlignRight || !blocks[0].Freestanding {
		t.Fatalf("user message = %+v, want freestanding right", blocks[0])
	}
	if blocks[1].Position != PositionTop {
		t.Fatalf("scene position = %q, want top", blocks[1].Position)
	}
	if blocks[2].Position != PositionBottom {
		t.Fatalf("condition position = %q, want bottom", blocks[2].Position)
	}
}

func TestPlacementRules(t *testing.T) {
	cases := []struct {
		name string
		prev *Block
		kind conversation.Kind
		want Position
	}{
		{"no predecessor", nil, conversation.KindResultingSceneDescription, PositionMiddle},
		{"after group", &Block{Kind: BlockPreScene, Align: AlignLeft, Position: PositionTop}, conversation.KindResultingSceneDescription, PositionMiddle},
		{"after bottom", &Block{Align: AlignLeft, Position: PositionBottom}, conversation.KindResultingSceneDescription, PositionTop},
		{"after freestanding", &Block{Freestanding: true, Align: AlignLeft}, conversation.KindResultingSceneDescription, PositionTop},
		{"tracked always middle", &Block{Freestanding: true, Align: AlignRight}, conversation.KindTrackedOperations, PositionMiddle},
		{"condition always bottom", nil, conversation.KindConditionTable, PositionBottom},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := placement(tc.kind, tc.prev); got != tc.want {
				t.Fatalf("placement = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRenderSkipsUnknownAndIgnoredKinds(t *testing.T) {
	r := newTestRenderer()
	ups := r.Render([]conversation.Object{
		{Type: "mystery"},
		conversation.Decode(json.RawMessage(`{"type":"mystery","integer":"x"}`)),
		{Type: conversation.KindToolUse},
		{Type: conversation.KindBootSequenceEnd},
		conversation.IntroBlurb("Welcome."),
	})
	blocks := r.Surface().Blocks()
	if len(blocks) != 1 || blocks[0].Kind != BlockKind(conversation.KindIntroBlurb) {
		t.Fatalf("blocks = %+v, want only the intro blurb", blocks)
	}
	if len(ups) != 1 || ups[0].Op != OpAppend {
		t.Fatalf("updates = %+v, want one append", ups)
	}
}

func TestRenderMalformedObjectBecomesErrorBlock(t *testing.T) {
	r := newTestRenderer()
	r.Render([]conversation.Object{
		{Type: conversation.KindDifficultyRoll},
		conversation.SceneDescription("Still here."),
	})
	blocks := r.Surface().Blocks()
	if len(blocks) != 2 {
		t.Fatalf("len(blocks) = %d, want 2", len(blocks))
	}
	if blocks[0].Kind != BlockKind(conversation.KindError) || !blocks[0].Freestanding {
		t.Fatalf("first block = %+v, want degraded error block", blocks[0])
	}
	if !strings.Contains(blocks[0].Slot(SlotBody), "difficulty_roll") {
		t.Fatalf("error body = %q", blocks[0].Slot(SlotBody))
	}
	if blocks[1].Position != PositionTop {
		t.Fatalf("scene after error block should be top, got %q", blocks[1].Position)
	}
}

func TestRenderMapDataAlias(t *testing.T) {
	r := newTestRenderer()
	r.Render([]conversation.Object{conversation.Text(conversation.KindMapData, "# Map")})
	b := r.Surface().Blocks()[0]
	if b.Kind != BlockKind(conversation.KindWorldGenData) || b.Slot(SlotHeader) != "World Gen Data" {
		t.Fatalf("map_data block = %+v", b)
	}
}

func TestRenderHeadersAndStyles(t *testing.T) {
	cases := []struct {
		obj        conversation.Object
		wantHeader string
		wantStyle  TextStyle
	}{
		{conversation.Text(conversation.KindOOCMessage, "brb"), "", StylePrimary},
		{conversation.ConditionTable("| HP | 10 |"), "Character Condition", StyleInfo},
		{conversation.Text(conversation.KindTrackedOperations, "- lantern"), "Tracked Operations", StyleInfo},
	}
	for _, tc := range cases {
		t.Run(string(tc.obj.Type), func(t *testing.T) {
			r := newTestRenderer()
			r.Render([]conversation.Object{tc.obj})
			b := r.Surface().Blocks()[0]
			if got := b.Slot(SlotHeader); got != tc.wantHeader {
				t.Fatalf("header = %q, want %q", got, tc.wantHeader)
			}
			if b.Style != tc.wantStyle {
				t.Fatalf("style = %q, want %q", b.Style, tc.wantStyle)
			}
		})
	}
}

func TestRenderUnrecognizedSectionUsesHeader(t *testing.T) {
	r := newTestRenderer()
	r.Render([]conversation.Object{conversation.Unrecognized("Rumours", "Wolves nearby.")})
	b := r.Surface().Blocks()[0]
	if b.Slot(SlotHeader) != "Rumours" || b.Slot(SlotBody) != "Wolves nearby." {
		t.Fatalf("unrecognized block = %+v", b)
	}
}

func TestRenderTrivialTarget(t *testing.T) {
	r := newTestRenderer()
	r.Render([]conversation.Object{
		conversation.DifficultyAnalysis("Walking is easy."),
		conversation.DifficultyTarget("Trivial"),
	})
	g := r.Surface().Blocks()[0]
	if g.Slot(SlotDifficultyBar) != "100" || !g.Hints.HideRoll {
		t.Fatalf("trivial group = %+v", g)
	}
	if g.Slot(SlotDifficultyOutcome) != TrivialOutcome {
		t.Fatalf("outcome = %q", g.Slot(SlotDifficultyOutcome))
	}
	if g.Hints.DifficultyColor != TrivialColor {
		t.Fatalf("colour = %v, want trivial", g.Hints.DifficultyColor)
	}
}

func TestRenderGlowAndMarkerHints(t *testing.T) {
	r := newTestRenderer()
	r.Render([]conversation.Object{conversation.DifficultyTarget("97"), conversation.DifficultyRoll(100)})
	h := r.Surface().Blocks()[0].Hints
	if h.Glow != GlowHigh || !h.MarkerPlain {
		t.Fatalf("hints = %+v, want high glow and plain marker", h)
	}

	plain := NewRenderer(NewSurface(), Options{})
	plain.Render([]conversation.Object{conversation.DifficultyTarget("50"), conversation.DifficultyRoll(1)})
	g := plain.Surface().Blocks()[0]
	if g.Hints.Glow != GlowNone {
		t.Fatalf("glow disabled but got %v", g.Hints.Glow)
	}
	if g.Has(SlotDifficultyOutcome) {
		t.Fatalf("narration disabled but outcome = %q", g.Slot(SlotDifficultyOutcome))
	}
}

func TestLookbackIsRecomputedAfterClear(t *testing.T) {
	r := newTestRenderer()
	r.Render([]conversation.Object{conversation.DifficultyTarget("30")})
	r.Clear()
	r.Render([]conversation.Object{conversation.DifficultyRoll(50)})
	blocks := r.Surface().Blocks()
	if len(blocks) != 1 {
		t.Fatalf("len(blocks) = %d, want 1", len(blocks))
	}
	if blocks[0].Has(SlotDifficultyTarget) {
		t.Fatalf("group after clear must be fresh")
	}
	if blocks[0].ID == 1 {
		t.Fatalf("block ids must not be reused after clear")
	}
}

func TestThinkingPlaceholder(t *testing.T) {
	r := newTestRenderer()
	var seen []Op
	r.Subscribe(func(u Update) { seen = append(seen, u.Op) })
	id := r.AddThinking()
	if r.Surface().Len() != 1 {
		t.Fatalf("thinking block not appended")
	}
	if !r.Remove(id) {
		t.Fatalf("Remove(%d) = false", id)
	}
	if r.Remove(id) {
		t.Fatalf("second Remove(%d) should report missing block", id)
	}
	if r.Surface().Len() != 0 {
		t.Fatalf("surface should be empty")
	}
	if len(seen) != 2 || seen[0] != OpAppend || seen[1] != OpRemove {
		t.Fatalf("sink saw %v", seen)
	}
}

func TestPlanIsPure(t *testing.T) {
	p := NewPlanner(DefaultOptions())
	look := Lookback{NextID: 7}
	first := p.Plan(look, conversation.DifficultyTarget("70"))
	second := p.Plan(look, conversation.DifficultyTarget("70"))
	if len(first) != len(second) {
		t.Fatalf("plan lengths differ: %d vs %d", len(first), len(second))
	}
	if first[0].Op != OpAppend || first[0].BlockID != 7 {
		t.Fatalf("first update = %+v, want append of block 7", first[0])
	}
	for i := range first {
		if first[i].Op != second[i].Op || first[i].Slot != second[i].Slot || first[i].Content != second[i].Content {
			t.Fatalf("update %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
