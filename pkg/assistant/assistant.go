// Package assistant answers buyer questions about a listing from a fixed set
// of canned replies. There is no language model behind it; the reply is
// chosen by keyword.
package assistant

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

type BookInfo struct {
	Title     string `json:"title" binding:"required"`
	Author    string `json:"author"`
	Price     int    `json:"price"`
	Condition string `json:"condition"`
}

type SellerInfo struct {
	Username string `json:"username" binding:"required"`
	School   string `json:"school"`
}

type topic struct {
	name     string
	keywords []string
	replies  []string
	// withTitle prefixes the reply with the book title.
	withTitle bool
}

// Topics are checked in this order; the first match wins.
var topics = []topic{
	{
		name:      "price",
		keywords:  []string{"價", "价", "多少錢", "price", "cost", "cheap"},
		withTitle: true,
		replies: []string{
			"That is a fair price for a student budget.",
			"The price looks reasonable. Chat with the seller if you are interested.",
			"Going by current market prices this is a sensible asking price.",
			"Given the condition and how hard it is to find, it is a good deal.",
			"If it feels high, try making an offer.",
			"Much cheaper than a new copy, which makes it a solid choice.",
			"Looks like a reasonable starting price. Ask for details first.",
			"Some sellers are open to negotiation, so it does not hurt to ask!",
		},
	},
	{
		name:     "condition",
		keywords: []string{"狀況", "状况", "新舊", "condition", "wear", "damage"},
		replies: []string{
			"If the book is in good shape it will read just fine.",
			"Light signs of use are nothing to worry about.",
			"Ask the seller whether there are highlights or damage.",
			"If it is close to new, it is well worth buying!",
			"Check for missing or stained pages before you buy.",
			"For a frequently used course book some wear is acceptable.",
			"A bit worn is fine as long as the content is complete.",
			"Sellers usually describe the condition honestly. You can ask for more photos.",
		},
	},
	{
		name:     "shipping",
		keywords: []string{"運", "运", "寄", "ship", "deliver"},
		replies: []string{
			"Ask the seller which shipping options they offer and what they cost.",
			"Many sellers offer meet-ups or convenience-store pickup.",
			"In a hurry? Ask for the fastest shipping option.",
			"Check whether shipping is included so there are no surprises.",
			"If you are at the same school, meeting up saves on shipping.",
			"Some sellers cover shipping, so it is worth asking.",
			"If you want it sent to your dorm, check that works for the seller.",
			"Convenience-store pickup is a common and easy option!",
		},
	},
	{
		name:     "contact",
		keywords: []string{"聯", "联", "問", "contact", "message", "reach"},
		replies: []string{
			"You can reach the seller by leaving a message on the platform!",
			"Chat first to confirm the condition and how you will trade.",
			"If you are interested, send the seller a message.",
			"Asking a few questions can sometimes get you a better price.",
			"Confirm the content and edition with the seller so you get the right book.",
			"Introduce yourself, then ask about the details of the book.",
			"Ask whether the seller has other books to clear out too.",
			"If the platform has chat, messaging directly is fastest!",
		},
	},
	{
		name:     "payment",
		keywords: []string{"付", "款", "pay"},
		replies: []string{
			"The seller usually decides on payment, so ask up front.",
			"Some sellers take bank transfer, cash on meet-up or mobile payment.",
			"Third-party payment on the platform gives you more protection.",
			"Pay after you have confirmed the condition, to protect both sides.",
			"Avoid paying strangers in advance; ask for proof first.",
		},
	},
	{
		name:     "edition",
		keywords: []string{"版", "edition", "version"},
		replies: []string{
			"Ask which edition it is and whether it is the latest.",
			"Editions can differ in content, so double-check.",
			"Older editions are cheaper and often still usable.",
			"For a required textbook, check which edition your instructor wants.",
			"Editions are often close; what matters is whether notes or answers are included.",
		},
	},
	{
		name:     "course",
		keywords: []string{"課", "课", "course", "class"},
		replies: []string{
			"This book is often used in economics or management courses.",
			"Ask the seller which course they used it for.",
			"Make sure it matches your course requirements before buying.",
			"Books with similar titles can differ in content.",
			"If unsure, ask your instructor or senior students.",
		},
	},
}

type Assistant struct {
	intN func(n int) int
}

// New returns an assistant. rng may be nil, in which case the global source
// is used.
func New(rng *rand.Rand) *Assistant {
	if rng == nil {
		return &Assistant{intN: rand.IntN}
	}
	return &Assistant{intN: rng.IntN}
}

// Reply answers message about book.
func (a *Assistant) Reply(book BookInfo, seller SellerInfo, message string) string {
	lower := strings.ToLower(message)
	for _, t := range topics {
		if !containsAny(lower, t.keywords) {
			continue
		}
		reply := t.replies[a.intN(len(t.replies))]
		if t.withTitle {
			return fmt.Sprintf("About \"%s\": %s", book.Title, reply)
		}
		return reply
	}

	defaults := []string{
		fmt.Sprintf("\"%s\" is a popular textbook. Anything else I can help with?", book.Title),
		fmt.Sprintf("This is a question about %s. It is best to contact %s directly for details.", book.Title, seller.Username),
		"I see you are interested in this book. You can contact the seller through the platform.",
	}
	return defaults[a.intN(len(defaults))]
}

// Topic reports which topic Reply would answer from, or "" for the fallback.
func Topic(message string) string {
	lower := strings.ToLower(message)
	for _, t := range topics {
		if containsAny(lower, t.keywords) {
			return t.name
		}
	}
	return ""
}

// Suggest points a searcher at a matching title, or at the catalog in
// general when nothing matches.
func (a *Assistant) Suggest(query string, titles []string) string {
	if len(titles) == 0 {
		return ""
	}
	q := strings.ToLower(query)
	for _, title := range titles {
		if strings.Contains(strings.ToLower(title), q) {
			return "Found related book: " + title
		}
	}
	return fmt.Sprintf("We have %d books. Try %s?", len(titles), titles[0])
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
