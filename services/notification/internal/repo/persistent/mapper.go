package persistent

import "lotto-settlement/services/notification/internal/model"

func toUserIDs(models []model.UserModel) []string {
	ids := make([]string, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}
	return ids
}
