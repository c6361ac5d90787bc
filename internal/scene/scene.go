package scene

import "fmt"

// Count is the fixed number of scenes in every generated video.
const Count = 5

// Kind identifies one of the five narrative beats.
type Kind int

const (
	KindWelcome Kind = iota
	KindProduct
	KindOffer
	KindLocation
	KindContact
)

func (k Kind) String() string {
	switch k {
	case KindWelcome:
		return "welcome"
	case KindProduct:
		return "product"
	case KindOffer:
		return "offer"
	case KindLocation:
		return "location"
	case KindContact:
		return "contact"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Language selects the narration template set.
type Language string

const (
	LangHindi Language = "hindi"
	LangOther Language = "other"
)

// Input is everything a render needs to construct the five scenes.
// Script and Titles are optional per-scene overrides from the ad-copy
// generator; empty entries fall back to the templated text.
type Input struct {
	OfferText     string
	ProductName   string
	Discount      string
	ShopType      string
	ShopName      string
	Address       string
	ContactNumber string
	Language      Language
	VisualPath    string // optional user-supplied product visual (image or PDF)
	ShareURL      string // printed as a QR code on the contact scene
	Script        []string
	Titles        []string
}

// Scene is one immutable beat of the slideshow.
type Scene struct {
	Index      int
	Kind       Kind
	Background string
	Icon       string
	Title      string
	Subtitle   string
	Narration  string
}

// policy is the per-kind rendering policy: background style, default icon
// and the templated text builders for both language sets.
type policy struct {
	background string
	icon       string
	title      func(in Input) string
	subtitle   func(in Input) string
	narration  map[Language]func(in Input) string
}

var policies = [Count]policy{
	KindWelcome: {
		background: "sunrise",
		icon:       "storefront",
		title:      func(in Input) string { return in.ShopName },
		subtitle:   func(in Input) string { return in.ShopType },
		narration: map[Language]func(in Input) string{
			LangHindi: func(in Input) string {
				return fmt.Sprintf("नमस्ते! %s में आपका स्वागत है।", in.ShopName)
			},
			LangOther: func(in Input) string {
				return fmt.Sprintf("Welcome to %s!", in.ShopName)
			},
		},
	},
	KindProduct: {
		background: "royal",
		icon:       "tag",
		title:      func(in Input) string { return in.ProductName },
		subtitle:   func(in Input) string { return in.OfferText },
		narration: map[Language]func(in Input) string{
			LangHindi: func(in Input) string {
				return fmt.Sprintf("हमारे यहाँ %s उपलब्ध है। बेहतरीन क्वालिटी, सही दाम।", in.ProductName)
			},
			LangOther: func(in Input) string {
				return fmt.Sprintf("We bring you %s. Great quality at the right price.", in.ProductName)
			},
		},
	},
	KindOffer: {
		background: "festive",
		icon:       "percent",
		title:      func(in Input) string { return in.Discount },
		subtitle:   func(in Input) string { return in.ProductName },
		narration: map[Language]func(in Input) string{
			LangHindi: func(in Input) string {
				return fmt.Sprintf("धमाका ऑफर! %s, सिर्फ आपके लिए। जल्दी कीजिए, ऑफर सीमित समय के लिए है।", in.Discount)
			},
			LangOther: func(in Input) string {
				return fmt.Sprintf("Special offer! %s, just for you. Hurry, limited time only.", in.Discount)
			},
		},
	},
	KindLocation: {
		background: "leaf",
		icon:       "map-pin",
		title:      func(in Input) string { return "Visit Us" },
		subtitle:   func(in Input) string { return in.Address },
		narration: map[Language]func(in Input) string{
			LangHindi: func(in Input) string {
				return fmt.Sprintf("हमारा पता है %s। आज ही पधारें।", in.Address)
			},
			LangOther: func(in Input) string {
				return fmt.Sprintf("Find us at %s. Visit us today.", in.Address)
			},
		},
	},
	KindContact: {
		background: "indigo",
		icon:       "phone",
		title:      func(in Input) string { return in.ContactNumber },
		subtitle:   func(in Input) string { return in.ShopName },
		narration: map[Language]func(in Input) string{
			LangHindi: func(in Input) string {
				return fmt.Sprintf("अभी कॉल करें %s पर। %s — आपकी सेवा में। धन्यवाद!", in.ContactNumber, in.ShopName)
			},
			LangOther: func(in Input) string {
				return fmt.Sprintf("Call us now at %s. %s, at your service. Thank you!", in.ContactNumber, in.ShopName)
			},
		},
	},
}

// Build constructs the five scenes for one render. Scenes are value types
// and are never mutated after this point.
func Build(in Input) [Count]Scene {
	lang := in.Language
	if lang != LangHindi {
		lang = LangOther
	}

	var out [Count]Scene
	for i := 0; i < Count; i++ {
		k := Kind(i)
		p := policies[i]

		s := Scene{
			Index:      i,
			Kind:       k,
			Background: p.background,
			Icon:       p.icon,
			Title:      p.title(in),
			Subtitle:   p.subtitle(in),
			Narration:  p.narration[lang](in),
		}
		if i < len(in.Titles) && in.Titles[i] != "" {
			s.Title = in.Titles[i]
		}
		if i < len(in.Script) && in.Script[i] != "" {
			s.Narration = in.Script[i]
		}
		out[i] = s
	}
	return out
}

// Narrations returns the five narration strings in scene order.
func Narrations(scenes [Count]Scene) []string {
	out := make([]string, Count)
	for i, s := range scenes {
		out[i] = s.Narration
	}
	return out
}
