package models

// SettlementPolicy задаёт арифметику расчёта при завершении обмена.
// Bonus — фиксированная премия обеим сторонам за завершённый обмен,
// не зависит от цены и задаётся конфигурацией.
type SettlementPolicy struct {
	Bonus int
}

// SettlementResult описывает итог применения политики расчёта:
// новые значения балансов обеих сторон и фактически переведённая сумма.
type SettlementResult struct {
	// Transfer — сколько баллов фактически переведено получателю.
	Transfer int
	// Clamped выставляется, когда запрошенная сумма превышала фактический
	// held отправителя и была урезана. Это единственное санкционированное
	// защитное урезание, вызывающая сторона обязана его залогировать.
	Clamped bool
	// Floored выставляется, когда available отправителя упёрся в ноль.
	Floored bool

	SenderAvailable   int
	SenderHeld        int
	ReceiverAvailable int
}

// Apply вычисляет новые балансы сторон. Перевод урезается до фактического
// held отправителя. Арифметика воспроизводит исходное поведение системы:
// отправитель теряет transfer из held И из available, получая bonus сверху;
// получатель получает transfer + bonus в available. Инварианты
// available >= 0 и held >= 0 сохраняются всегда.
func (p SettlementPolicy) Apply(senderAvailable, senderHeld, receiverAvailable, amount int) SettlementResult {
	res := SettlementResult{Transfer: amount}

	if res.Transfer > senderHeld {
		res.Transfer = senderHeld
		res.Clamped = true
	}
	if res.Transfer < 0 {
		res.Transfer = 0
	}

	res.SenderHeld = senderHeld - res.Transfer
	res.SenderAvailable = senderAvailable - res.Transfer + p.Bonus
	if res.SenderAvailable < 0 {
		res.SenderAvailable = 0
		res.Floored = true
	}
	res.ReceiverAvailable = receiverAvailable + res.Transfer + p.Bonus

	return res
}
