package recommend

import (
	"fmt"
	"strings"

	"github.com/bomadvisor/substitute-cli/pkg/nexar"
)

// advisorSystemPrompt pins the LLM into the role of a parts advisor that
// favors mainland-Chinese alternatives and answers with bare JSON.
const advisorSystemPrompt = `你是一个精通中国电子元器件行业的专家，擅长为各种元器件寻找合适的替代方案，尤其专注于中国大陆本土生产的国产元器件。始终以有效的JSON格式回复，不添加任何额外说明。`

const identifySystemPrompt = `你是一个精通电子元器件的专家，能够根据型号准确提取元器件关键信息。始终以有效的JSON格式回复，不添加任何额外说明。`

const riskSystemPrompt = `你是一个电子元器件生命周期分析专家，熟悉各大厂商的停产公告和长期供货政策。始终以有效的JSON格式回复，不添加任何额外说明。`

// chatSystemPrompt drives the interactive selection-expert mode. Output is
// Markdown rather than JSON.
const chatSystemPrompt = `您是一名电子元器件选型专家，请严格遵循以下流程：

一. 参数解析阶段：识别硬性参数（电压/电流/频率/温度/封装），提取应用场景（工业/消费/汽车/医疗），确认限制条件（成本/供货周期/认证/国产化需求）。

二. 方案生成阶段：获取候选型号（必须包含国产方案，如圣邦微、长电、士兰微等），分级推荐：旗舰方案（国际大厂，参数完美匹配）、优选方案（国产替代，参数匹配≥95%）、备选方案（参数临界匹配但成本优势明显）。至少提供5个有效选项，其中国产方案不少于2个。

三. 输出规范：严格使用Markdown格式，包含参数对比表格（标注价格和关键性能指标）、推荐表（含价格梯度和供货指数）、国产方案竞争力分析、生命周期预警。标题使用二级或三级标题，表格使用标准Markdown表格语法，禁止使用HTML标签。

对话规范：技术参数尽量标注来源；出现单一供应商依赖风险、国产方案参数达标但未被选择、成本敏感场景选用超规格器件时立即提示。`

// externalContext renders parts-search hits as prompt context.
func externalContext(hits []nexar.Hit) string {
	if len(hits) == 0 {
		return "无外部元器件检索数据可用，请直接推荐替代元器件。\n"
	}
	var b strings.Builder
	b.WriteString("外部检索到的替代元器件数据：\n")
	for i, h := range hits {
		fmt.Fprintf(&b, "%d. 型号: %s, 名称: %s, 制造商: %s, 链接: %s\n", i+1, h.MPN, h.Name, h.Manufacturer, h.URL)
	}
	return b.String()
}

func primaryPrompt(mpn, name, description, context string) string {
	var detail strings.Builder
	if name != "" {
		fmt.Fprintf(&detail, "元器件名称：%s\n", name)
	}
	if description != "" {
		fmt.Fprintf(&detail, "元器件描述：%s\n", description)
	}

	return fmt.Sprintf(`任务：你是一个专业的电子元器件顾问，专精于国产替代方案。请结合以下外部检索数据为输入元器件推荐替代产品。推荐的替代方案必须与输入型号 %[1]s 不同（绝对不能推荐 %[1]s 或其变体，如不同封装的同一型号）。

输入元器件型号：%[1]s
%[2]s
%[3]s

要求：
1. 必须推荐至少一种中国大陆本土品牌的替代方案（如 GigaDevice/兆易创新、WCH/沁恒、复旦微电子、中颖电子、圣邦微电子等）
2. 如果能找到多种中国大陆本土品牌的替代产品，优先推荐这些产品，推荐的国产方案数量越多越好
3. 如果实在找不到足够三种中国大陆本土品牌的产品，可以推荐国外品牌产品作为补充，但必须明确标注
4. 总共需要推荐 3 种性能相近的替代型号
5. 提供每种型号的品牌名称、封装信息和元器件类目（例如：MCU、DCDC、LDO、传感器、存储芯片等）
6. 根据元器件类型提供对应的关键参数：
   - 若是MCU/单片机：CPU内核、主频、程序存储容量、RAM大小、IO数量
   - 若是DCDC：输入电压范围、输出电压、最大输出电流、效率
   - 若是LDO：输入电压范围、输出电压、最大输出电流、压差
   - 若是存储器：容量、接口类型、读写速度
   - 若是传感器：测量范围、精度、接口类型
   - 其他类型提供对应的关键参数
7. 在每个推荐方案中明确标注是"国产"还是"进口"产品
8. 提供产品大致价格范围，必须明确标示货币单位：人民币使用 ¥X-¥Y 格式，美元使用 $X-$Y 格式
9. 评估物料生命周期状态：上市时间、当前生命周期阶段（量产中、新产品、即将停产、已停产、不推荐用于新设计等）、预估剩余生命周期、是否有EOL通知
10. 准确判断每个替代方案是否为pin-to-pin替代，必须同时满足以下所有条件才能标记为pin兼容：
    a. 物理尺寸和封装与原元器件相同，引脚排列和间距一致（误差1mm以内），可以在相同PCB焊盘位置安装
    b. 所有引脚的功能和编号与原元器件完全匹配
    c. 电气特性（电压/电流/时序等）与原元器件在合理范围内兼容
    d. 无需对PCB进行任何修改就能替换使用
    e. 以上任何一点不符合或无法确定，则标记为非pin兼容
11. 提供产品官网链接（若无真实链接，可提供示例链接，如 https://www.example.com/datasheet）
12. 必须严格返回以下 JSON 格式的结果，不允许添加任何额外说明、Markdown 格式或代码块标记，直接返回裸 JSON：
[
    {"model": "GD32F103C8T6", "brand": "GigaDevice/兆易创新", "category": "MCU", "package": "LQFP48", "parameters": "CPU内核: ARM Cortex-M3, 主频: 108MHz, Flash: 64KB, RAM: 20KB, IO: 37", "type": "国产", "status": "量产中", "price": "¥12-¥15", "leadTime": "3-5周", "pinToPin": true, "compatibility": "引脚完全兼容，软件需少量修改", "datasheet": "https://www.gigadevice.com/datasheet", "releaseDate": "2013年", "lifecycle": "量产中，长期供货计划"}
]`, mpn, detail.String(), context)
}

// retryPrompt asks only for the shortfall, with a reduced field set and a
// hard emphasis on domestic sourcing.
func retryPrompt(mpn string, need int) string {
	return fmt.Sprintf(`任务：为以下元器件推荐替代产品，推荐的替代方案必须与输入型号 %[1]s 不同（绝对不能推荐 %[1]s 或其变体）。
输入元器件型号：%[1]s

之前的推荐结果未包含国产方案或数量不足，请重新推荐，重点关注国产替代方案。

要求：
1. 必须推荐至少一种中国大陆本土品牌的替代方案（如 GigaDevice/兆易创新、WCH/沁恒、复旦微电子、中颖电子、圣邦微电子、3PEAK、Chipsea 等）
2. 优先推荐国产芯片，推荐的国产方案数量越多越好
3. 如果找不到足够的国产方案，可以补充进口方案，但必须明确标注
4. 总共推荐 %[2]d 种替代方案
5. 每个推荐项必须包含 "model"、"brand"、"category"、"package"、"parameters"、"type" 和 "datasheet" 七个字段
6. 在每个推荐方案中明确标注是"国产"还是"进口"产品
7. 必须严格返回 JSON 数组格式的结果，不允许添加任何额外说明或代码块标记，直接返回裸 JSON：
[
    {"model": "型号1", "brand": "品牌1", "category": "类别1", "package": "封装1", "parameters": "参数1", "type": "国产/进口", "datasheet": "链接1"}
]
8. 如果无法找到合适的替代方案，返回空的 JSON 数组：[]`, mpn, need)
}

func identifyPrompt(mpn string) string {
	return fmt.Sprintf(`任务：你是一个专业的电子元器件专家，请分析以下元器件型号并提取关键信息：

元器件型号：%[1]s

要求：
1. 提取以下关键信息（如果无法获取则填"未知"）：制造商、元器件类别（如MCU、DCDC、LDO等）、封装类型、主要技术参数、价格范围（包含货币符号，如 ¥10-¥15 或 $1.5-$2.0）、生命周期状态、供货周期、是否为PIN兼容器件
2. 严格按照以下 JSON 格式输出，不添加任何额外内容：
{
    "mpn": "%[1]s",
    "manufacturer": "制造商名称",
    "category": "元器件类别",
    "package": "封装类型",
    "parameters": {"参数名称": "参数值"},
    "price": "价格范围，包含货币符号",
    "status": "生命周期状态",
    "leadTime": "供货周期",
    "pin_compatible": "是/否/未知"
}`, mpn)
}

func riskPrompt(mpn, name, description string) string {
	var detail strings.Builder
	if name != "" {
		fmt.Fprintf(&detail, "元器件名称：%s\n", name)
	}
	if description != "" {
		fmt.Fprintf(&detail, "元器件描述：%s\n", description)
	}

	return fmt.Sprintf(`任务：评估以下元器件的停产风险。

元器件型号：%s
%s
要求：
1. 判断该元器件当前状态："discontinued"（已停产）或 "in production"（量产中）
2. 如果在量产中，判断其生命周期终止（EOL）情况：
   - 如果厂商已宣布EOL年份，给出该年份
   - 如果厂商没有停产计划，填 "no plan"
   - 如果厂商已发出老化/封装淘汰等信号但未宣布年份，估计为4年后的年份
3. 严格按照以下 JSON 格式输出，不添加任何额外内容：
{"status": "discontinued 或 in production", "eol": "年份数字、no plan 或 unknown"}`, mpn, detail.String())
}
