package recommend

import (
	"github.com/bomadvisor/substitute-cli/internal/model"
)

// demoAlternatives returns canned placeholder candidates so an interactive
// demo still shows output when every upstream has failed.
func demoAlternatives(mpn string) []model.CandidateAlternative {
	return []model.CandidateAlternative{
		{
			Model:         "GD32F103C8T6",
			Brand:         "GigaDevice/兆易创新",
			Category:      "MCU",
			Package:       "LQFP48",
			Parameters:    "CPU内核: ARM Cortex-M3, 主频: 108MHz, Flash: 64KB, RAM: 20KB",
			Sourcing:      model.SourcingDomestic,
			Price:         "¥12-¥15",
			Status:        "量产中",
			LeadTime:      "3-5周",
			PinToPin:      false,
			Compatibility: "演示数据，未针对 " + mpn + " 核实",
			DatasheetURL:  model.PlaceholderDatasheetURL,
		},
		{
			Model:         "SGM2042",
			Brand:         "SG Micro/圣邦微电子",
			Category:      "LDO",
			Package:       "SOT-23",
			Parameters:    "输入电压: 2.5-5.5V, 输出电流: 300mA",
			Sourcing:      model.SourcingDomestic,
			Price:         "¥0.5-¥1.2",
			Status:        "量产中",
			LeadTime:      "2-4周",
			PinToPin:      false,
			Compatibility: "演示数据，未针对 " + mpn + " 核实",
			DatasheetURL:  model.PlaceholderDatasheetURL,
		},
		{
			Model:         "MP2307DN",
			Brand:         "MPS",
			Category:      "DCDC",
			Package:       "SOIC-8",
			Parameters:    "输入电压: 4.75-23V, 输出电流: 3A",
			Sourcing:      model.SourcingForeign,
			Price:         "$0.8-$1.2",
			Status:        "量产中",
			LeadTime:      "6-8周",
			PinToPin:      false,
			Compatibility: "演示数据，未针对 " + mpn + " 核实",
			DatasheetURL:  model.PlaceholderDatasheetURL,
		},
	}
}
