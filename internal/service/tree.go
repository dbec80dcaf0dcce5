package service

import "comment-service/internal/domain"

// CommentNode is a comment with its replies nested. Built on read; the
// stored record stays flat.
type CommentNode struct {
	domain.Comment
	Replies []*CommentNode `json:"replies"`
}

// BuildTree assembles a flat ordered set of comments into root nodes with
// their replies populated. It is a pure transform: no storage access, no
// mutation of the input.
//
// A comment whose parent is not in the working set is dropped, not promoted
// to root: if the parent was excluded from the page, the reply is invisible
// in that page's tree. Roots and reply lists both follow input order.
func BuildTree(comments []domain.Comment) []*CommentNode {
	nodes := make(map[string]*CommentNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = &CommentNode{
			Comment: comments[i],
			Replies: []*CommentNode{},
		}
	}

	roots := make([]*CommentNode, 0, len(comments))
	for i := range comments {
		node := nodes[comments[i].ID]
		if comments[i].ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*comments[i].ParentID]; ok {
			parent.Replies = append(parent.Replies, node)
		}
	}

	return roots
}
