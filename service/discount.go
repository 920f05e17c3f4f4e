package service

// Discount rules. Each registered referral is worth DiscountPerReferral
// percent up to MaxTierDiscount; a purchase by a referral is worth a flat
// PurchaseBonus percent on top, uncapped.
const (
	DiscountPerReferral = 2.0
	MaxTierDiscount     = 50.0
	PurchaseBonus       = 10.0
)

// TierDiscount computes the discount percentage earned purely from the
// referral count: min(2n, 50). Monotone non-decreasing and deterministic.
func TierDiscount(referralsCount int64) float64 {
	discount := float64(referralsCount) * DiscountPerReferral
	if discount > MaxTierDiscount {
		return MaxTierDiscount
	}
	return discount
}

// ApplyGrant adds an administrator-granted delta to the current discount.
// The result is deliberately uncapped: an administrator may push a discount
// past the tier ceiling.
func ApplyGrant(current, delta float64) float64 {
	return current + delta
}

// ApplyRevoke subtracts delta from the current discount, floored at zero.
func ApplyRevoke(current, delta float64) float64 {
	result := current - delta
	if result < 0 {
		return 0
	}
	return result
}

// ApplyPurchaseBonus credits the fixed purchase bonus to a referrer's
// current discount.
func ApplyPurchaseBonus(current float64) float64 {
	return current + PurchaseBonus
}
