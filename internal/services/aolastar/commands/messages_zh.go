package commands

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.SimplifiedChinese

	message.SetString(lang, "help.text", `🎮 奥拉星游戏内容解析插件

📋 可用命令:
• /ar_help - 显示此帮助信息
• /ar_existingpacket - 获取现有封包列表（每页 %d 个）
• /ar_existingpacket next - 显示下一页
• /ar_existingpacket prev - 显示上一页
• /ar_existingpacket <名称> - 搜索匹配名称的封包（支持正则表达式）
• /ar_existingpacket reset - 清除搜索并回到第一页
• /ar_attr ls - 查看属性系别列表
• /ar_attr <属性ID> - 查看该属性的克制关系
• /ar_attr_image <属性ID> - 获取图片版的克制关系图
• /ar_decrypt <Base64内容> - 将 Base64 内容解密为 JSON
• /ar_encrypt <JSON内容> - 将 JSON 内容加密为 Base64

⚙️ 配置说明:
请通过 AOLASTAR_API_BASE_URL 设置数据服务地址`)
	message.SetString(lang, "command.unknown", "❌ 未知命令 '%s'，使用 /ar_help 查看可用命令")
	message.SetString(lang, "stale.notice", "⚠️ 数据服务暂时不可用，以下为缓存数据")

	message.SetString(lang, "packets.empty", "📭 暂无可用的封包列表")
	message.SetString(lang, "packets.header", "✅ 找到 %d 个封包，显示第 %d-%d 个:")
	message.SetString(lang, "packets.search_header", "🔍 找到 %d 个匹配 '%s' 的封包，显示第 %d-%d 个:")
	message.SetString(lang, "packets.search_literal", "⚠️ '%s' 不是有效的正则表达式，已按普通文本匹配")
	message.SetString(lang, "packets.no_match", "❌ 未找到匹配 '%s' 的封包")
	message.SetString(lang, "packets.packet", "   封包: %s")
	message.SetString(lang, "packets.page", "📄 第 %d/%d 页")
	message.SetString(lang, "packets.hint_next", "💡 使用 /ar_existingpacket next 查看下一页")
	message.SetString(lang, "packets.hint_prev", "💡 使用 /ar_existingpacket prev 查看上一页")
	message.SetString(lang, "packets.hint_reset", "💡 使用 /ar_existingpacket reset 返回完整列表")
	message.SetString(lang, "packets.last_page", "❌ 已经是最后一页了")
	message.SetString(lang, "packets.first_page", "❌ 已经是第一页了")

	message.SetString(lang, "attributes.empty", "无法获取属性列表")
	message.SetString(lang, "attributes.header", "奥拉星属性系别列表:")
	message.SetString(lang, "attributes.total", "总计: %d 个属性系别")
	message.SetString(lang, "attributes.hint", "使用 /ar_attr <属性ID> 查看该属性的克制关系")
	message.SetString(lang, "attributes.usage", "❌ 请提供属性ID，例如 /ar_attr 1，或使用 /ar_attr ls 查看属性列表")
	message.SetString(lang, "attributes.image_usage", "❌ 请提供属性ID，例如 /ar_attr_image 1")
	message.SetString(lang, "attributes.expected_id_or_ls", "属性ID 或 ls")
	message.SetString(lang, "attributes.expected_id", "属性ID")

	message.SetString(lang, "relations.header", "目标 %s 属性的克制关系:")
	message.SetString(lang, "relations.attack", "攻击方 (当前属性攻击其他属性时):")
	message.SetString(lang, "relations.defense", "防御方 (其他属性攻击当前属性时):")
	message.SetString(lang, "relations.tier.super", "绝对克制")
	message.SetString(lang, "relations.tier.strong", "克制")
	message.SetString(lang, "relations.tier.normal", "一般")
	message.SetString(lang, "relations.tier.weak", "微弱")
	message.SetString(lang, "relations.tier.immune", "无效")
	message.SetString(lang, "relations.damage.times", "%s倍伤害")
	message.SetString(lang, "relations.damage.half", "1/2伤害")
	message.SetString(lang, "relations.damage.none", "无伤害")
	message.SetString(lang, "relations.more", "     ... 还有 %d 个")
	message.SetString(lang, "relations.all_normal", "  ➡️ 对所有属性造成正常伤害(1倍)")
	message.SetString(lang, "relations.legend", `说明:
   • 3 = 绝对克制 (3倍伤害)
   • 2 = 克制 (2倍伤害)
   • 1/2 = 微弱 (1/2伤害)
   • -1 = 无效 (无伤害)
   • 空 = 一般 (1倍伤害)`)
	message.SetString(lang, "relations.image_hint", "使用 /ar_attr_image <属性ID> 可以获取图片版的克制关系图")
	message.SetString(lang, "relations.image_caption", "%s 属性克制关系图")
}
