package supabase

type userResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		FullName string `json:"full_name"`
		Name     string `json:"name"`
	} `json:"user_metadata"`
}

func (r userResponse) name() string {
	if r.UserMetadata.FullName != "" {
		return r.UserMetadata.FullName
	}
	return r.UserMetadata.Name
}
