package brand

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Tables holds the classifier's heuristic name and prefix lists. The lists
// are hand-curated and bilingual; mainland and Taiwan-region brands are both
// listed as domestic per sourcing policy.
type Tables struct {
	Domestic         []string `yaml:"domestic"`
	Foreign          []string `yaml:"foreign"`
	DomesticPrefixes []string `yaml:"domestic_prefixes"`
	ForeignPrefixes  []string `yaml:"foreign_prefixes"`
}

// DefaultTables returns the compiled-in brand tables.
func DefaultTables() Tables {
	return Tables{
		Domestic: []string{
			"GigaDevice", "兆易创新",
			"WCH", "沁恒",
			"Fudan Micro", "复旦微电子",
			"Zhongying", "中颖电子",
			"SG Micro", "SGM", "圣邦微电子",
			"3PEAK", "思瑞浦",
			"Chipsea", "芯海科技",
			"Chipown", "芯朋微",
			"BYD Semiconductor", "比亚迪半导体",
			"CR Micro", "华润微",
			"HuaDa", "华大半导体",
			"HuaHong", "华虹",
			"Silan", "士兰微",
			"Belling", "上海贝岭",
			"Nations", "国民技术",
			"Mindmotion", "灵动微电子",
			"Espressif", "乐鑫",
			"Nuvoton", "新唐",
			"Richtek", "立锜",
			"Holtek", "盛群",
		},
		Foreign: []string{
			"Texas Instruments", "TI",
			"STMicroelectronics", "ST Micro",
			"NXP", "Infineon", "Renesas",
			"Microchip", "Atmel",
			"Analog Devices", "ADI", "Maxim",
			"ON Semiconductor", "onsemi",
			"Toshiba", "Rohm", "Vishay", "Diodes",
			"Skyworks", "Broadcom",
			"MPS", "Monolithic Power",
			"Murata", "TDK",
			"Micron", "Samsung", "SK Hynix",
			"Nordic", "Silicon Labs",
		},
		DomesticPrefixes: []string{
			"gd32", "gd25", "ch32", "ch55", "ch57", "ch9",
			"sgm", "tpa32", "tp7", "cs12", "hk32", "mm32",
			"cw32", "fm33", "n32", "apm32", "bl6", "pn5",
		},
		ForeignPrefixes: []string{
			"stm32", "stm8", "pic", "atmega", "attiny",
			"msp430", "lpc", "tms320", "tps", "lm", "max",
			"mcp", "ncp", "nrf", "mp2", "mp1", "irf", "bq",
			"ad7", "ad9", "ltc",
		},
	}
}

// LoadTables reads classifier tables from a YAML policy file. Missing lists
// fall back to the compiled-in defaults, so a file may override only the
// lists it cares about.
func LoadTables(path string) (Tables, error) {
	defaults := DefaultTables()

	data, err := os.ReadFile(path)
	if err != nil {
		return defaults, eris.Wrapf(err, "brand: read tables %s", path)
	}

	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return defaults, eris.Wrap(err, "brand: parse tables")
	}

	if len(t.Domestic) == 0 {
		t.Domestic = defaults.Domestic
	}
	if len(t.Foreign) == 0 {
		t.Foreign = defaults.Foreign
	}
	if len(t.DomesticPrefixes) == 0 {
		t.DomesticPrefixes = defaults.DomesticPrefixes
	}
	if len(t.ForeignPrefixes) == 0 {
		t.ForeignPrefixes = defaults.ForeignPrefixes
	}

	return t, nil
}
