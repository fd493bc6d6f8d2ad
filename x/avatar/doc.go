/*
Package avatar implements collections of non fungible avatars. Every avatar
has a single owner and at most one approved account that is allowed to
transfer it. Approval is cleared whenever the avatar changes hands.
*/
package avatar
