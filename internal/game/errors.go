package game

// User-facing error messages, reported only to the offending connection.
const (
	msgBadRequest     = "طلب غير صالح!"
	msgInvalidName    = "اكتب اسم صحيح!"
	msgInvalidCode    = "كود الغرفة غير صحيح!"
	msgRoomNotFound   = "الغرفة غير موجودة!"
	msgRoomFull       = "الغرفة ممتلئة!"
	msgNameTaken      = "الاسم مستخدم بالفعل!"
	msgGameInProgress = "اللعبة بدأت بالفعل!"
	msgNeedPlayers    = "محتاج على الأقل 3 لاعبين!"
	msgNeedCategories = "اختار 3 فئات على الأقل!"
	msgBadConfig      = "إعدادات اللعبة غير صحيحة!"
	msgAlreadyVoted   = "صوتّ بالفعل!"
	msgInvalidVote    = "تصويت غير صالح!"
	msgReconnectFail  = "تعذر استعادة الجلسة!"
)
