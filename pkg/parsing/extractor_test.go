package parsing

import (
	"testing"

	"ai-ordertaking-be/internal/dto"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []dto.ItemMention
	}{
		{
			name: "single item with unit",
			text: "2 cases Maggi Noodles 70g",
			want: []dto.ItemMention{
				{Name: "Maggi Noodles 70g", Quantity: 2, Unit: "case", Confidence: 0.5},
			},
		},
		{
			name: "two items joined with and",
			text: "2 cases maggi and 3 packs parle g",
			want: []dto.ItemMention{
				{Name: "maggi", Quantity: 2, Unit: "case", Confidence: 0.5},
				{Name: "parle g", Quantity: 3, Unit: "pack", Confidence: 0.5},
			},
		},
		{
			name: "comma and aur separators with glued unit",
			text: "5kg sugar, 2 dozen eggs aur 3 bottles pepsi",
			want: []dto.ItemMention{
				{Name: "sugar", Quantity: 5, Unit: "kg", Confidence: 0.5},
				{Name: "eggs", Quantity: 2, Unit: "dozen", Confidence: 0.5},
				{Name: "pepsi", Quantity: 3, Unit: "bottle", Confidence: 0.5},
			},
		},
		{
			name: "leading order verb and of",
			text: "i need 10 packets of biscuits",
			want: []dto.ItemMention{
				{Name: "biscuits", Quantity: 10, Unit: "packet", Confidence: 0.5},
			},
		},
		{
			name: "trailing hindi order verb",
			text: "5 kg atta chahiye",
			want: []dto.ItemMention{
				{Name: "atta", Quantity: 5, Unit: "kg", Confidence: 0.5},
			},
		},
		{
			name: "no unit word",
			text: "4 Thums Up 500ml",
			want: []dto.ItemMention{
				{Name: "Thums Up 500ml", Quantity: 4, Unit: "", Confidence: 0.5},
			},
		},
		{
			name: "no quantities at all",
			text: "hello how are you",
			want: []dto.ItemMention{},
		},
		{
			name: "empty message",
			text: "",
			want: []dto.ItemMention{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Extract() returned %d items, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i].Name != tt.want[i].Name {
					t.Errorf("item %d Name = %q, want %q", i, got[i].Name, tt.want[i].Name)
				}
				if got[i].Quantity != tt.want[i].Quantity {
					t.Errorf("item %d Quantity = %v, want %v", i, got[i].Quantity, tt.want[i].Quantity)
				}
				if got[i].Unit != tt.want[i].Unit {
					t.Errorf("item %d Unit = %q, want %q", i, got[i].Unit, tt.want[i].Unit)
				}
				if got[i].Confidence != tt.want[i].Confidence {
					t.Errorf("item %d Confidence = %v, want %v", i, got[i].Confidence, tt.want[i].Confidence)
				}
			}
		})
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "plain english order", text: "2 cases maggi and 3 packs parle g", want: "en"},
		{name: "hindi order verb", text: "5 kg atta chahiye", want: "hi"},
		{name: "hindi greeting", text: "namaste", want: "hi"},
		{name: "hindi conjunction", text: "2 maggi aur 3 parle", want: "hi"},
		{name: "empty text", text: "", want: "en"},
		{name: "english with brand names", text: "need sugar and eggs", want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLanguage(tt.text); got != tt.want {
				t.Errorf("DetectLanguage(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
