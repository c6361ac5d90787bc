package sharecode

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/thakurp/shopreel/internal/scene"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		state State
	}{
		{
			"minimal",
			State{ShopName: "Sharma Store", Language: scene.LangOther},
		},
		{
			"unicode hindi text",
			State{
				OfferText:     "दिवाली धमाका — सभी कवर पर छूट",
				ProductName:   "मोबाइल कवर",
				Discount:      "५०% छूट",
				ShopType:      "Mobile Accessories",
				ShopName:      "शर्मा स्टोर",
				Language:      scene.LangHindi,
				Address:       "१२ एम.जी. रोड, पुणे",
				ContactNumber: "9876543210",
			},
		},
		{
			"full script and titles",
			State{
				ShopName:    "Sharma Store",
				Language:    scene.LangHindi,
				VideoScript: []string{"a", "b", "c", "d", "e"},
				VideoTitles: []string{"t1", "t2", "t3", "t4", "t5"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := Encode(tt.state)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if strings.ContainsAny(token, "+/=?&#") {
				t.Errorf("token not URL-safe: %q", token)
			}

			got, err := Decode(token)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(got, tt.state) {
				t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, tt.state)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	valid, err := Encode(State{ShopName: "Sharma Store"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"not json", "bm90LWpzb24"},
		{"truncated", valid[:len(valid)/2]},
		{"wrong script arity", mustEncode(t, State{ShopName: "x", VideoScript: []string{"only", "three", "entries"}})},
		{"missing shop name", mustEncode(t, State{Language: scene.LangHindi})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrMalformedToken) {
				t.Errorf("error %v does not wrap ErrMalformedToken", err)
			}
		})
	}
}

func mustEncode(t *testing.T, s State) string {
	t.Helper()
	token, err := Encode(s)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestSceneInputMapping(t *testing.T) {
	s := State{
		OfferText:     "offer",
		ProductName:   "product",
		Discount:      "10%",
		ShopName:      "shop",
		Address:       "addr",
		ContactNumber: "123",
		Language:      scene.LangHindi,
		VideoScript:   []string{"a", "b", "c", "d", "e"},
	}
	in := s.SceneInput()
	if in.ShopName != "shop" || in.Language != scene.LangHindi || len(in.Script) != 5 {
		t.Errorf("scene input mapping wrong: %+v", in)
	}
}
