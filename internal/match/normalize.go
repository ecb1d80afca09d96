package match

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// normalize canonicalizes text for comparison: NFC composition, halfwidth
// and fullwidth forms folded to their canonical width, then lowercased.
// Script is preserved; see foldSimplified for the fuzzy-only step.
func normalize(s string) string {
	s = norm.NFC.String(s)
	s = width.Fold.String(s)
	return strings.ToLower(strings.TrimSpace(s))
}

// foldSimplified maps Traditional Chinese characters onto their Simplified
// forms. Applied only in fuzzy mode, so exact lookups still distinguish
// the two scripts.
func foldSimplified(s string) string {
	return strings.Map(func(r rune) rune {
		if simplified, ok := traditionalToSimplified[r]; ok {
			return simplified
		}
		return r
	}, s)
}

// traditionalToSimplified covers the characters that commonly differ in
// artist and track names. Not a complete conversion table.
var traditionalToSimplified = map[rune]rune{
	'愛': '爱', '樂': '乐', '聽': '听', '風': '风',
	'雲': '云', '夢': '梦', '戀': '恋', '語': '语', '說': '说',
	'讓': '让', '時': '时', '間': '间', '們': '们', '來': '来',
	'這': '这', '裡': '里', '還': '还', '沒': '没', '會': '会',
	'後': '后', '見': '见', '聲': '声', '點': '点', '燈': '灯',
	'淚': '泪', '飛': '飞', '鳥': '鸟', '馬': '马', '魚': '鱼',
	'龍': '龙', '鳳': '凤', '華': '华', '萬': '万', '億': '亿',
	'電': '电', '臺': '台', '灣': '湾', '東': '东', '車': '车',
	'門': '门', '開': '开', '關': '关', '長': '长', '發': '发',
	'頭': '头', '臉': '脸', '體': '体', '廣': '广', '場': '场',
	'節': '节', '紅': '红', '綠': '绿', '藍': '蓝', '黃': '黄',
	'島': '岛', '橋': '桥', '書': '书', '寫': '写', '畫': '画',
	'詩': '诗', '詞': '词', '韋': '韦', '倫': '伦', '傑': '杰',
	'陳': '陈', '張': '张', '劉': '刘', '楊': '杨', '吳': '吴',
	'蘇': '苏', '鄧': '邓', '鄭': '郑', '謝': '谢', '許': '许',
	'羅': '罗', '葉': '叶', '趙': '赵', '孫': '孙', '錢': '钱',
	'週': '周', '藝': '艺', '術': '术',
	'舊': '旧', '麗': '丽', '歡': '欢', '憶': '忆', '懷': '怀',
	'遠': '远', '邊': '边', '過': '过', '運': '运', '遊': '游',
	'銀': '银', '鐘': '钟', '鐵': '铁', '陽': '阳', '陰': '阴',
	'雙': '双', '隻': '只', '離': '离', '難': '难',
	'靜': '静', '願': '愿', '類': '类',
}
