package advice

// Default returns the built-in rules.
func Default() *RuleSet {
	return &RuleSet{
		Rules: []Rule{
			{From: 0, To: 5, Tips: []string{
				"Run the dishwasher and washing machine overnight to use off-peak rates.",
				"Check for devices left on standby while everyone is asleep.",
			}},
			{From: 6, To: 9, Tips: []string{
				"Stagger showers and kettle use to flatten the morning peak.",
				"Switch off lights and heating in rooms left empty after breakfast.",
			}},
			{From: 10, To: 16, Tips: []string{
				"Use daylight instead of artificial lighting.",
				"Schedule high-load appliances while solar output is highest.",
			}},
			{From: 17, To: 21, Tips: []string{
				"Avoid running the oven, dryer and dishwasher together during the evening peak.",
				"Pre-heat or pre-cool the house before 17:00 to cut peak HVAC load.",
			}},
			{From: 22, To: 23, Tips: []string{
				"Unplug chargers and entertainment systems before bed.",
				"Set the thermostat back 1-2 °C for the night.",
			}},
		},
		General: []string{
			"Review the consumption chart for unexpected spikes.",
		},
	}
}
