package format

// memberShape identifies which of the two member payloads the service sent.
type memberShape int

const (
	// flatMember: GET /member, name/email at the top level.
	flatMember memberShape = iota
	// nestedMember: GET /members and /members/{id}, name/email under "profile".
	nestedMember
)

func memberShapeOf(rec Record) memberShape {
	if _, ok := rec["name"]; ok {
		return flatMember
	}
	return nestedMember
}

// MemberView 归一化成员记录，两种形状输出一致
func MemberView(v any) (Member, error) {
	f := newFields("member", v)
	if f.err != nil {
		return Member{}, f.err
	}

	var m Member
	switch memberShapeOf(f.rec) {
	case flatMember:
		m = flatMemberView(f)
	case nestedMember:
		m = nestedMemberView(f)
	}
	if f.err != nil {
		return Member{}, f.err
	}
	return m, nil
}

// Members 归一化成员列表
func Members(v any) ([]Member, error) { return each("member", v, MemberView) }

func flatMemberView(f *fields) Member {
	return Member{
		ID:          f.required("id"),
		Name:        f.str("name", "Unknown"),
		Email:       f.value("email"),
		MentionName: f.value("mention_name"),
	}
}

func nestedMemberView(f *fields) Member {
	profile := &fields{entity: "member profile", rec: f.object("profile")}
	return Member{
		ID:          f.required("id"),
		Name:        profile.str("name", "Unknown"),
		Email:       profile.value("email_address"),
		MentionName: profile.value("mention_name"),
	}
}
