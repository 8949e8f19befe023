package bank

// DefaultPrompts returns the built-in moderator question table. Ids are
// stable across runs; the text is shown to participants verbatim.
func DefaultPrompts() map[int]string {
	return map[int]string{
		// Economy
		1:  "A member claims they lost 50k currency due to a bot glitch. They have proof via screenshot. How would you handle this?",
		2:  "Someone wants you to add 1 billion currency to their account because they're a content creator. What's your response?",
		3:  "The server economy is inflated - everyone has billions. What commands would you suggest to them inorder fix this?",
		4:  "A member accidentally bought 100 of an expensive item. They want a refund. What will you do?",
		5:  "Someone's complaining that te leaderboard shows members who left the server 6 months ago. How do you fix this?",
		6:  "A user asks why they can see everyone else's balance but others can't see theirs. What setting controls this?",
		7:  "The server owner want new members to start with 5000 coins in their bank. How do you set this up?",
		8:  "Someone's asking why they only earn 50-100 currency in their server while others earn 500-1000 in a different server. What would you suggest them?",
		9:  "A member wants their economy data completely removed from the server. What command handles this?",
		10: "A trusted member asks you to give them 10k as a 'loan' they'll pay back. What's the appropriate response?",
		11: "Someone's complaining they can't deposit money in their bank. What setting do you need to check?",
		12: "A member sold an item to another member outside the bot, but wants you to transfer the money. Should you?",
		13: "The owner wants to change the currency from coins to gems. How do you do this?",
		14: "Someone wants to hide themselves from the leaderboard for privacy. Is this possible and how?",
		15: "If a user request you to give them free eldorium or blazecoins, what's your response?",

		// Item management
		16: "A member bought a VIP Role item but didn't receive the role. What do you check first?",
		17: "The shop has an item priced at 100 currency that should be 100k. How do you fix this?",
		18: "Someone wants to create an item that removes a role instead of giving one. Is this possible?",
		19: "An item's description has a typo. What's the command to fix just the description?",
		20: "The owner wants an item to have unlimited stock instead of the current limit of 50. How do you change this?",
		21: "A limited edition item should only be buyable by people with the Premium role. How do you set this up?",
		22: "Someone accidentally bought an item meant for another member. Can you transfer it between their inventories?",
		23: "An item's emoji is displaying incorrectly. How would you remove it or change it?",
		24: "The owner wants to see all custom items in the server before deciding which to remove. What command shows this?",
		25: "A member wants you to create an item that costs 0 currency. Is this allowed and how would you explain it?",

		// Command configuration
		26: "Members are complaining that rob cooldown is too short - people get robbed every hour. How do you increase it?",
		27: "Someone's asking why they can't use the slots command in #general but can use it in #casino. What controls this?",
		28: "The owner wants to disable all gambling commands server-wide. What's the fastest way?",
		29: "Work command pays too little - members want it increased to 1000-5000 per use. How do you set this?",
		30: "Someone says blackjack has no maximum bet and people are betting billions. How do you add a limit?",
		31: "The rob success rate is 60% and the owner wants it lowered to 30%. What command do you use?",
		32: "Members can use bot commands in every channel and it's getting spammy. How do you restrict it to specific channels?",
		33: "The owner wants grab-jobs to appear more frequently. What setting controls this?",
		34: "Someone's asking why the minimum bet for dice is 10 currency. They want it raised to 100. How do you change this?",
		35: "Work command cooldown is 24 hours and members say it's too long. Owner agrees to reduce it to 12 hours. How?",
		36: "The owner wants member nicknames to show on leaderboards instead of usernames. What command changes this?",
		37: "Chat money system should give 10-50 currency every 5 messages. How would you enable and configure this?",

		// Permission & authority
		38: "A moderator is asking why they can't use add-money command even though they have Manage Server permission. What's missing?",
		39: "The owner wants specific trusted members to use admin economy commands without giving them Administrator. How?",
		40: "Someone with Authority role accidentally reset the entire server economy. How could this have been prevented?",
		41: "A staff member wants to know what permissions they need to create giveaways. What do you tell them?",
		42: "You need to remove someone from the Authority list because they're abusing commands. How?",
		43: "The owner is asking what's the difference between Authority and Administrator permission for bot commands. How do you explain?",
		44: "A staff member can use toggle-module but not set-prefix. Why might this be?",
		45: "Someone's asking if they need special permissions to view the server's current tax settings. What's the answer?",

		// Advanced features
		46: "The owner wants a lottery system where members can buy tickets. How would you set this up?",
		47: "Members with Gold role should earn 5000 coins automatically every 24 hours. What command enables this?",
		48: "The owner wants add-money and remove-money actions logged to a specific channel. How do you set this up?",
		49: "Someone's asking if they can create custom job responses for the grab-job feature. Is this possible?",
		50: "The owner wants the default grab-jobs disabled but custom ones enabled. How do you configure this?",
		51: "Bank limit is currently 100k and the owner wants different limits for different roles. Is this possible with these commands?",
		52: "The owner wants counting channel to restart from 1 if someone messes up. How do you set this up?",
		53: "Someone's asking how to make work command replies more personalized for the server theme. What command helps?",
		54: "The owner wants purchase logs enabled but add-money logs disabled. How do you configure this separately?",
		55: "Members want to know current tax settings before they deposit money. What command shows this information?",

		// Problem-solving & policy
		56: "A member is demanding you give them items/money in the eldoria server because other servers do it. How do you respond professionally?",
		57: "Someone found a way to exploit grab-jobs by creating alt accounts. What immediate action do you take?",
		58: "Two members are fighting because one robbed the other for 50k. Both are demanding you intervene. What do you do?",
		59: "The leaderboard shows someone with 999 trillion currency, which seems impossible. What do you investigate?",
		60: "A member threatens to report the server if you don't give them compensation for lost currency with no proof. How do you handle this?",

		// General moderation
		61: "A user is spamming the same message across multiple channels. What's your immediate action, and what follow-up steps would you take?",
		62: "Two members are having a heated argument in a public channel. The discussion is getting personal but hasn't violated any explicit rules yet. How do you handle this?",
		63: "A new member joins and immediately starts posting NSFW content in a SFW channel. What's your response?",
		64: "You notice a member has changed their username to something offensive. What do you do?",
		65: "Someone reports that another user sent them threatening DMs. The reporter provides screenshots. How do you proceed?",
		66: "A popular member with a good history violates a minor rule for the first time. How do you balance fairness with their standing in the community?",
		67: "Multiple users are reporting the same person for 'being annoying' but you can't find any rule violations. What's your approach?",
		68: "You see a suspicious link being shared. How do you determine if it's malicious and what actions do you take?",

		69: "What information should you document when issuing a warning or ban?",
		70: "When should you escalate an issue to senior moderators or admins versus handling it yourself?",
		71: "A user appeals their ban and claims they were unfairly punished. What's your process for reviewing this?",
		72: "How do you handle a situation where you personally dislike a user but they haven't broken any rules?",
		73: "What's the difference between a timeout, a kick, and a ban? When would you use each?",
		74: "Should moderators explain their actions publicly, in DMs, or both? What are the pros and cons?",
		75: "How would you handle discovering that another moderator abused their power?",

		76: "What's the purpose of Discord's AutoMod feature and what are its limitations?",
		77: "How can you tell if a user is using an alt account to evade a ban?",
		78: "What Discord permissions should a moderator have, and which ones are unnecessary?",
		79: "How do slow mode and verification levels help with moderation?",
		80: "What's the difference between deleting messages and timing someone out?",

		81: "How do you balance strict rule enforcement with maintaining a welcoming community atmosphere?",
		82: "A long-time member is consistently bending the rules without technically breaking them. How do you address this?",
		83: "What would you do if community members start complaining that moderation is too strict or too lenient?",
		84: "How should moderators interact with the community when not actively moderating?",
		85: "Someone is asking for mental health advice or expressing suicidal thoughts. What's your response?",
	}
}
