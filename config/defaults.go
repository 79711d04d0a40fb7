package config

import "github.com/ds124wfegd/bgremove/internal/entity"

// DefaultPresets are the variant sets offered by the upload API.
// The thresholds were picked by eye on real logos.
func DefaultPresets() []entity.Preset {
	return []entity.Preset{
		{
			Name: "white",
			Variants: []entity.Variant{
				{Name: "standard", Mode: entity.ModeWhite, Threshold: 30},
				{Name: "aggressive", Mode: entity.ModeWhite, Threshold: 50},
			},
		},
		{
			Name: "grey",
			Variants: []entity.Variant{
				{Name: "standard", Mode: entity.ModeGrey, Threshold: 50},
				{Name: "conservative", Mode: entity.ModeGrey, Threshold: 30},
				{Name: "aggressive", Mode: entity.ModeGrey, Threshold: 80},
			},
		},
	}
}

// DefaultJobs are the batch runs for the site's two logos.
func DefaultJobs() []entity.Job {
	return []entity.Job{
		{
			Name:  "vhi",
			Input: "public/vhi.jpg",
			Variants: []entity.VariantOutput{
				{Variant: entity.Variant{Name: "standard", Mode: entity.ModeWhite, Threshold: 30}, Output: "public/vhi.png"},
				{Variant: entity.Variant{Name: "aggressive", Mode: entity.ModeWhite, Threshold: 50}, Output: "public/vhi_aggressive.png"},
			},
		},
		{
			Name:  "laya",
			Input: "public/laya.png",
			Variants: []entity.VariantOutput{
				{Variant: entity.Variant{Name: "standard", Mode: entity.ModeGrey, Threshold: 50}, Output: "public/laya_transparent.png"},
				{Variant: entity.Variant{Name: "conservative", Mode: entity.ModeGrey, Threshold: 30}, Output: "public/laya_conservative.png"},
				{Variant: entity.Variant{Name: "aggressive", Mode: entity.ModeGrey, Threshold: 80}, Output: "public/laya_aggressive.png"},
			},
		},
	}
}
