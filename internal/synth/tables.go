package synth

// Vietnamese source tables for generated records.

var companyPrefixes = []string{
	"CÔNG TY TNHH", "CÔNG TY CỔ PHẦN", "DOANH NGHIỆP TƯ NHÂN",
	"CÔNG TY TRÁCH NHIỆM HỮU HẠN", "CÔNG TY LIÊN DOANH",
	"TẬP ĐOÀN", "TỔNG CÔNG TY", "NHÀ MÁY", "XÍ NGHIỆP",
}

var companySectorsUpper = []string{
	"CÔNG NGHỆ THÔNG TIN", "XÂY DỰNG", "THƯƠNG MẠI DỊCH VỤ",
	"SẢN XUẤT", "CHẾ BIẾN", "VẬN TẢI", "LOGISTICS", "TÀI CHÍNH",
	"NGÂN HÀNG", "BẢO HIỂM", "BẤT ĐỘNG SẢN", "DU LỊCH",
	"GIÁO DỤC", "Y TẾ", "NÔNG NGHIỆP", "THỦY SẢN",
}

var companyRegions = []string{
	"VIỆT NAM", "HÀ NỘI", "SÀI GÒN", "ĐÀ NẴNG", "HẢI PHÒNG",
	"CẦN THƠ", "HUẾ", "NHA TRANG", "VŨNG TÀU", "QUẢNG NINH",
	"THANH HÓA", "NGHỆ AN", "QUẢNG BÌNH", "HÀ TĨNH", "QUẢNG TRỊ",
}

var familyNames = []string{
	"Nguyễn", "Trần", "Lê", "Phạm", "Hoàng", "Phan", "Vũ", "Võ",
	"Đặng", "Bùi", "Đỗ", "Hồ", "Ngô", "Dương", "Lý", "Đinh",
}

var middleNames = []string{
	"Văn", "Thị", "Đức", "Minh", "Quang", "Hữu", "Công", "Đình",
	"Thanh", "Xuân", "Thu", "Hạ", "Đông", "Nam", "Bắc", "Trung",
}

var givenNames = []string{
	"An", "Bình", "Cường", "Dũng", "Giang", "Hải", "Khánh", "Linh",
	"Minh", "Nam", "Oanh", "Phương", "Quang", "Sơn", "Thảo", "Uyên",
}

var provinces = []string{
	"Hà Nội", "TP Hồ Chí Minh", "Đà Nẵng", "Hải Phòng", "Cần Thơ",
	"An Giang", "Bà Rịa - Vũng Tàu", "Bạc Liêu", "Bắc Giang", "Bắc Kạn",
	"Bắc Ninh", "Bến Tre", "Bình Định", "Bình Dương", "Bình Phước",
	"Bình Thuận", "Cà Mau", "Cao Bằng", "Đắk Lắk", "Đắk Nông",
	"Điện Biên", "Đồng Nai", "Đồng Tháp", "Gia Lai", "Hà Giang",
	"Hà Nam", "Hà Tĩnh", "Hải Dương", "Hậu Giang", "Hòa Bình",
	"Hưng Yên", "Khánh Hòa", "Kiên Giang", "Kon Tum", "Lai Châu",
	"Lâm Đồng", "Lạng Sơn", "Lào Cai", "Long An", "Nam Định",
	"Nghệ An", "Ninh Bình", "Ninh Thuận", "Phú Thọ", "Phú Yên",
	"Quảng Bình", "Quảng Nam", "Quảng Ngãi", "Quảng Ninh", "Quảng Trị",
	"Sóc Trăng", "Sơn La", "Tây Ninh", "Thái Bình", "Thái Nguyên",
	"Thanh Hóa", "Thừa Thiên Huế", "Tiền Giang", "Trà Vinh", "Tuyên Quang",
	"Vĩnh Long", "Vĩnh Phúc", "Yên Bái",
}

var districts = []string{
	"Quận 1", "Quận 2", "Quận 3", "Quận 4", "Quận 5", "Quận 6",
	"Quận 7", "Quận 8", "Quận 9", "Quận 10", "Quận 11", "Quận 12",
	"Quận Ba Đình", "Quận Cầu Giấy", "Quận Đống Đa", "Quận Hai Bà Trưng",
	"Quận Hoàn Kiếm", "Quận Hoàng Mai", "Quận Long Biên", "Quận Tây Hồ",
	"Quận Thanh Xuân", "Huyện Ba Vì", "Huyện Chương Mỹ", "Huyện Đan Phượng",
	"Huyện Đông Anh", "Huyện Gia Lâm", "Huyện Hoài Đức", "Huyện Mê Linh",
}

var wards = []string{
	"Phường 1", "Phường 2", "Phường 3", "Phường 4", "Phường 5",
	"Phường Hàng Bạc", "Phường Hàng Bồ", "Phường Hàng Bông", "Phường Hàng Buồm",
	"Phường Hàng Đào", "Phường Hàng Gai", "Phường Hàng Mã", "Phường Hàng Trống",
	"Phường Lý Thái Tổ", "Phường Phúc Tân", "Phường Phúc Xá", "Phường Tràng Tiền",
}

var streetNames = []string{
	"Đường Lê Lợi", "Đường Nguyễn Huệ", "Đường Trần Hưng Đạo",
	"Đường Lý Thường Kiệt", "Đường Hai Bà Trưng", "Đường Lê Duẩn",
	"Đường Võ Văn Tần", "Đường Nguyễn Thị Minh Khai", "Đường Cách Mạng Tháng 8",
	"Đường Nguyễn Văn Cừ", "Đường Lê Văn Sỹ", "Đường Nguyễn Oanh",
}

var businessSectors = []string{
	"Công nghệ thông tin", "Xây dựng", "Thương mại dịch vụ",
	"Sản xuất chế biến", "Vận tải logistics", "Tài chính ngân hàng",
	"Bảo hiểm", "Bất động sản", "Du lịch khách sạn",
	"Giáo dục đào tạo", "Y tế", "Nông nghiệp thủy sản",
	"Năng lượng", "Hóa chất", "Dệt may", "Thực phẩm",
}

var companyTypes = []string{
	"Công ty TNHH", "Công ty cổ phần", "Doanh nghiệp tư nhân",
	"Công ty liên doanh", "Tập đoàn", "Tổng công ty",
}

var jobPositions = []string{
	"Giám đốc", "Phó giám đốc", "Trưởng phòng", "Phó trưởng phòng",
	"Nhân viên", "Chuyên viên", "Kỹ sư", "Kế toán", "Thư ký",
	"Nhân viên văn phòng", "Nhân viên bán hàng", "Nhân viên kỹ thuật",
	"Công nhân", "Thợ", "Lái xe", "Bảo vệ",
}

var hospitalNames = []string{
	"Bệnh viện Bạch Mai", "Bệnh viện Chợ Rẫy", "Bệnh viện Việt Đức",
	"Bệnh viện K", "Bệnh viện Nhi Trung ương", "Bệnh viện Phụ sản Trung ương",
	"Bệnh viện Tim Hà Nội", "Bệnh viện Mắt Trung ương", "Bệnh viện Da liễu Trung ương",
	"Bệnh viện Tâm thần Trung ương", "Bệnh viện Phong", "Bệnh viện Lao",
	"Bệnh viện 108", "Bệnh viện 103", "Bệnh viện 175", "Bệnh viện 354",
}

var medicalSpecialties = []string{
	"Nội khoa", "Ngoại khoa", "Sản phụ khoa", "Nhi khoa", "Tim mạch",
	"Thần kinh", "Tâm thần", "Da liễu", "Mắt", "Tai mũi họng",
	"Răng hàm mặt", "Xương khớp", "Ung bướu", "Huyết học", "Nội tiết",
}

var phonePrefixes = []string{
	"024", "028", "0236", "0238", "0239", "0251", "0252", "0254",
	"0255", "0256", "0257", "0258", "0259", "0260", "0261", "0262",
	"0263", "0264", "0265", "0266", "0267", "0268", "0269", "0270",
}
