package domain

// Auth идентификация вызывающего, извлеченная из заголовков запроса
type Auth struct {
	UserID       int64
	Capabilities []string
}

// Can проверяет наличие capability у вызывающего
func (a Auth) Can(capability string) bool {
	for _, c := range a.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}
