// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Authorization Gate

// CanModifyUser reports whether the acting subject may modify the target
// user record. The rule is deliberately minimal: a subject may only touch
// the record matching its own opaque ID, compared by exact string equality.
//
// A deny here is a "forbidden" condition (HTTP 403) at the boundary,
// distinct from "unauthenticated" (HTTP 401).
func CanModifyUser(actingUserID, targetUserID string) bool {
	return actingUserID != "" && actingUserID == targetUserID
}
