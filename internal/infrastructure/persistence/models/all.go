package models

// All lists every table model in migration order
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&PasswordResetTokenModel{},
		&ActivationTokenModel{},
		&ConversationModel{},
		&MessageModel{},
		&FinetuningTaskModel{},
		&ModelConfigModel{},
	}
}
