package adcopy

import (
	"context"
	"strings"
	"testing"

	"github.com/thakurp/shopreel/internal/scene"
)

func TestTemplateGenerator(t *testing.T) {
	c, err := TemplateGenerator{}.Generate(context.Background(), Request{
		ProductName:   "Mobile Cover",
		ShopName:      "Sharma Store",
		ShopType:      "Mobile Accessories",
		Discount:      "50% OFF",
		Address:       "12 MG Road, Pune",
		ContactNumber: "9876543210",
		Language:      scene.LangOther,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !strings.Contains(c.Text, "Sharma Store") {
		t.Errorf("ad copy missing shop name: %q", c.Text)
	}
	if len(c.Options) != 2 {
		t.Errorf("%d options, want 2", len(c.Options))
	}
	if len(c.VideoScript) != scene.Count || len(c.VideoTitles) != scene.Count {
		t.Fatalf("script/titles arity %d/%d", len(c.VideoScript), len(c.VideoTitles))
	}
	if !strings.Contains(c.VideoScript[scene.KindOffer], "50% OFF") {
		t.Errorf("offer line missing discount: %q", c.VideoScript[scene.KindOffer])
	}
	if !strings.Contains(c.VideoScript[scene.KindWelcome], "Sharma Store") {
		t.Errorf("welcome line missing shop name: %q", c.VideoScript[scene.KindWelcome])
	}
}

func TestClampScenes(t *testing.T) {
	c := &Creative{
		VideoScript: []string{"only", "three", "lines"},
		VideoTitles: []string{"a", "b", "c", "d", "e"},
	}
	c.clampScenes()
	if c.VideoScript != nil {
		t.Error("wrong-arity script not dropped")
	}
	if len(c.VideoTitles) != scene.Count {
		t.Error("valid titles dropped")
	}
}
